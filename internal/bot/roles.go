package bot

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/i474232898/weather-bot/internal/roles"
)

func (b *Bot) handleRolesCommand(s Session, i *discordgo.InteractionCreate, id string) {
	if i.GuildID == "" || i.Member == nil {
		b.replyOrLog(s, i, id, msgGuildOnly, true)
		return
	}

	assignable, err := b.assignableRoles(s, i.GuildID, id)
	if err != nil {
		log.Printf("ERROR: [%s] load roles for guild %s: %v", id, i.GuildID, err)
		b.replyOrLog(s, i, id, msgRoleFailed, true)
		return
	}

	page, ok := b.policy.Paginate(assignable, 0)
	if !ok {
		b.replyOrLog(s, i, id, msgNoRoles, true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    RoleMenuContent(page),
			Components: RoleMenu(page, i.Member.Roles),
		},
	})
	if err != nil {
		log.Printf("ERROR: [%s] send role menu: %v", id, err)
	}
}

// handleRoleSelect toggles the chosen role on the member.
func (b *Bot) handleRoleSelect(s Session, i *discordgo.InteractionCreate, id string, data discordgo.MessageComponentInteractionData) {
	if i.GuildID == "" || len(data.Values) == 0 {
		return
	}
	roleID := data.Values[0]
	user := userID(i.Interaction)

	assignable, err := b.assignableRoles(s, i.GuildID, id)
	if err != nil {
		log.Printf("ERROR: [%s] load roles for guild %s: %v", id, i.GuildID, err)
		b.replyOrLog(s, i, id, msgRoleFailed, true)
		return
	}

	role := roles.Find(assignable, roleID)
	if role == nil {
		log.Printf("INFO: [%s] role %s is not assignable", id, roleID)
		b.replyOrLog(s, i, id, msgRoleUnavailable, true)
		return
	}

	member, err := s.GuildMember(i.GuildID, user)
	if err != nil {
		log.Printf("ERROR: [%s] fetch member %s: %v", id, user, err)
		b.replyOrLog(s, i, id, msgRoleFailed, true)
		return
	}

	var msg string
	if roles.HasRole(member.Roles, roleID) {
		err = s.GuildMemberRoleRemove(i.GuildID, user, roleID)
		msg = fmt.Sprintf("Removed **%s** role!", role.Name)
	} else {
		err = s.GuildMemberRoleAdd(i.GuildID, user, roleID)
		msg = fmt.Sprintf("Added **%s** role!", role.Name)
	}
	if err != nil {
		log.Printf("ERROR: [%s] toggle role %s for %s: %v", id, roleID, user, err)
		msg = msgRoleFailed
	} else {
		log.Printf("INFO: [%s] %s", id, msg)
	}

	b.replyOrLog(s, i, id, msg, true)
}

// handleRolePage redraws the menu on the page a button points to.
func (b *Bot) handleRolePage(s Session, i *discordgo.InteractionCreate, id string, data discordgo.MessageComponentInteractionData) {
	if i.GuildID == "" {
		return
	}
	target, ok := roles.TargetPage(data.CustomID)
	if !ok {
		log.Printf("INFO: [%s] malformed page button %q", id, data.CustomID)
		return
	}

	assignable, err := b.assignableRoles(s, i.GuildID, id)
	if err != nil {
		log.Printf("ERROR: [%s] load roles for guild %s: %v", id, i.GuildID, err)
		b.replyOrLog(s, i, id, msgRoleFailed, true)
		return
	}

	update := &discordgo.InteractionResponseData{
		Content:    msgNoRoles,
		Components: []discordgo.MessageComponent{},
	}
	if page, ok := b.policy.Paginate(assignable, target); ok {
		var held []string
		if i.Member != nil {
			held = i.Member.Roles
		}
		update.Content = RoleMenuContent(page)
		update.Components = RoleMenu(page, held)
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: update,
	})
	if err != nil {
		log.Printf("ERROR: [%s] update role menu: %v", id, err)
	}
}

// assignableRoles loads the guild's roles and filters them against the bot's
// highest role. Roles hidden for blocked permissions are written to the
// exclusion log.
func (b *Bot) assignableRoles(s Session, guildID, id string) ([]*discordgo.Role, error) {
	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild roles: %w", err)
	}

	self, err := s.GuildMember(guildID, b.selfID())
	if err != nil {
		return nil, fmt.Errorf("bot member: %w", err)
	}

	assignable, excluded := b.policy.Assignable(guildID, guildRoles, roles.TopRole(guildRoles, self.Roles))
	if err := b.exclusions.Record(excluded); err != nil {
		log.Printf("ERROR: [%s] %v", id, err)
	}
	log.Printf("DEBUG: [%s] guild %s: %d roles, %d assignable, %d excluded by permission",
		id, guildID, len(guildRoles), len(assignable), len(excluded))
	return assignable, nil
}

func (b *Bot) replyOrLog(s Session, i *discordgo.InteractionCreate, id, content string, ephemeral bool) {
	if err := reply(s, i.Interaction, content, ephemeral); err != nil {
		log.Printf("ERROR: [%s] reply failed: %v", id, err)
	}
}
