package roles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DefaultPerPage is the most options a Discord select menu can hold.
const DefaultPerPage = 25

// Permission names a single permission bit.
type Permission struct {
	Name string
	Bit  int64
}

var knownPermissions = []Permission{
	{"Administrator", discordgo.PermissionAdministrator},
	{"ManageChannels", discordgo.PermissionManageChannels},
	{"ManageRoles", discordgo.PermissionManageRoles},
	{"ManageNicknames", discordgo.PermissionManageNicknames},
	{"KickMembers", discordgo.PermissionKickMembers},
	{"BanMembers", discordgo.PermissionBanMembers},
	{"ModerateMembers", discordgo.PermissionModerateMembers},
	{"ManageMessages", discordgo.PermissionManageMessages},
	{"SendTTSMessages", discordgo.PermissionSendTTSMessages},
	{"MuteMembers", discordgo.PermissionVoiceMuteMembers},
	{"DeafenMembers", discordgo.PermissionVoiceDeafenMembers},
	{"MoveMembers", discordgo.PermissionVoiceMoveMembers},
}

// ParsePermissions maps names such as "Administrator" or "manage roles" to
// permission bits.
func ParsePermissions(names []string) ([]Permission, error) {
	out := make([]Permission, 0, len(names))
	for _, name := range names {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		found := false
		for _, p := range knownPermissions {
			if normalizeName(p.Name) == key {
				out = append(out, p)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown permission %q", name)
		}
	}
	return out, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// Policy decides which guild roles members may assign themselves.
type Policy struct {
	Blocked []Permission
	PerPage int
}

// NewPolicy returns a Policy; perPage outside 1..25 falls back to 25.
func NewPolicy(blocked []Permission, perPage int) Policy {
	if perPage <= 0 || perPage > DefaultPerPage {
		perPage = DefaultPerPage
	}
	return Policy{Blocked: blocked, PerPage: perPage}
}

// Flagged lists the blocked permissions role carries.
func (p Policy) Flagged(role *discordgo.Role) []string {
	var names []string
	for _, perm := range p.Blocked {
		if role.Permissions&perm.Bit == perm.Bit {
			if perm.Name == "" {
				names = append(names, fmt.Sprintf("0x%x", perm.Bit))
				continue
			}
			names = append(names, perm.Name)
		}
	}
	return names
}

// Assignable filters guildRoles down to the ones the bot can hand out,
// sorted by position, highest first. Roles dropped for carrying a blocked
// permission are returned as exclusions. botTop is the bot's highest role;
// only roles below it are editable.
func (p Policy) Assignable(guildID string, guildRoles []*discordgo.Role, botTop *discordgo.Role) ([]*discordgo.Role, []Exclusion) {
	var (
		out      []*discordgo.Role
		excluded []Exclusion
	)

	for _, role := range guildRoles {
		if role == nil {
			continue
		}
		if flagged := p.Flagged(role); len(flagged) > 0 {
			excluded = append(excluded, Exclusion{
				RoleID:      role.ID,
				RoleName:    role.Name,
				Permissions: flagged,
			})
			continue
		}
		if role.Managed || role.ID == guildID {
			continue
		}
		if botTop == nil || role.ID == botTop.ID || role.Position >= botTop.Position {
			continue
		}
		out = append(out, role)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position > out[j].Position
	})
	return out, excluded
}

// TopRole returns the highest positioned role among memberRoleIDs, or nil.
func TopRole(guildRoles []*discordgo.Role, memberRoleIDs []string) *discordgo.Role {
	held := make(map[string]bool, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		held[id] = true
	}

	var top *discordgo.Role
	for _, role := range guildRoles {
		if role == nil || !held[role.ID] {
			continue
		}
		if top == nil || role.Position > top.Position {
			top = role
		}
	}
	return top
}

// Find returns the role with id, or nil.
func Find(list []*discordgo.Role, id string) *discordgo.Role {
	for _, role := range list {
		if role != nil && role.ID == id {
			return role
		}
	}
	return nil
}

// HasRole reports whether memberRoleIDs contains roleID.
func HasRole(memberRoleIDs []string, roleID string) bool {
	for _, id := range memberRoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
