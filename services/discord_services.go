package services

import (
	"context"
	"fmt"
	"strings"

	"viemind/config"
	"viemind/models"

	"github.com/bwmarrin/discordgo"
)

const (
	embedColor = 0x2563EB
	embedTitle = "🏁 New competition awaiting approval"
)

// DiscordNotifier posts moderation notices to a Discord webhook
type DiscordNotifier struct {
	session   *discordgo.Session
	webhookID string
	token     string
	clientURL string
}

// NewDiscordNotifier returns nil when no webhook is configured
func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if !cfg.DiscordEnabled() {
		return nil, nil
	}
	// webhooks are authenticated by their token, the session needs no bot token
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordNotifier{
		session:   s,
		webhookID: cfg.DiscordWebhookID,
		token:     cfg.DiscordWebhookToken,
		clientURL: cfg.ClientURL,
	}, nil
}

func (n *DiscordNotifier) CompetitionCreated(ctx context.Context, competition *models.Competition, organization *models.Organization) error {
	_, err := n.session.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{BuildCompetitionEmbed(competition, organization, n.clientURL)},
	}, discordgo.WithContext(ctx))
	return err
}

// BuildCompetitionEmbed renders the moderation notice for a new competition
func BuildCompetitionEmbed(competition *models.Competition, organization *models.Organization, clientURL string) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**%s**\n\n", competition.Title))
	if organization != nil {
		b.WriteString(fmt.Sprintf("**Organization:** %s\n", organization.Name))
	}
	b.WriteString(fmt.Sprintf("**Category:** %s\n", competition.Category))
	b.WriteString(fmt.Sprintf("**Dates:** %s → %s\n",
		competition.StartDate.Format("02/01/2006"), competition.EndDate.Format("02/01/2006")))
	if competition.PrizeAmount != nil {
		b.WriteString(fmt.Sprintf("**Prize:** %.0f %s\n", *competition.PrizeAmount, competition.Currency))
	}

	return &discordgo.MessageEmbed{
		Title:       embedTitle,
		URL:         fmt.Sprintf("%s/competitions/%s", clientURL, competition.ID),
		Description: b.String(),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Approve with PUT /api/competitions/" + competition.ID + "/approve"},
	}
}
