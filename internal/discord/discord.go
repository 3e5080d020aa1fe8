package discord

type Attachment struct {
	Filename    string
	ContentType string
	Body        []byte
}

type FileMessage struct {
	ChannelID string
	Content   string
	Files     []Attachment
}

type Client interface {
	Enabled() bool
	ChannelID() string
	SendChannelMessageWithFiles(msg FileMessage) error
}
