package discord

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/kikitori/internal/discord"
)

type Client struct {
	token     string
	channelID string
	session   *discordgo.Session
}

// REST only; no gateway connection is opened.
func NewClient(token, channelID string) (discordpkg.Client, error) {
	c := &Client{token: token, channelID: channelID}
	if token == "" {
		return c, nil
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	c.session = s
	return c, nil
}

func (c *Client) Enabled() bool {
	return c.session != nil && c.channelID != ""
}

func (c *Client) ChannelID() string {
	return c.channelID
}

func (c *Client) SendChannelMessageWithFiles(msg discordpkg.FileMessage) error {
	if !c.Enabled() {
		return nil
	}
	channelID := msg.ChannelID
	if channelID == "" {
		channelID = c.channelID
	}
	files := make([]*discordgo.File, 0, len(msg.Files))
	for _, f := range msg.Files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "text/plain"
		}
		files = append(files, &discordgo.File{Name: f.Filename, ContentType: contentType, Reader: bytes.NewReader(f.Body)})
	}
	_, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: msg.Content,
		Files:   files,
	})
	return err
}
