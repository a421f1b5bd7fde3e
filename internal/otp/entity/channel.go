package entity

import "strings"

type Channel string

const (
	ChannelUnknown  Channel = ""
	ChannelFile     Channel = "file"
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelTelegram Channel = "telegram"
)

func ParseChannel(s string) Channel {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelFile, ChannelEmail, ChannelSMS, ChannelTelegram:
		return c
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	return string(c)
}

// Label is the channel name used in client-facing messages.
func (c Channel) Label() string {
	switch c {
	case ChannelFile:
		return "File"
	case ChannelEmail:
		return "Email"
	case ChannelSMS:
		return "SMS"
	case ChannelTelegram:
		return "Telegram"
	default:
		return "Unknown"
	}
}

// DeliveredMessage is the response text after a successful delivery.
func (c Channel) DeliveredMessage() string {
	switch c {
	case ChannelFile:
		return "OTP saved to file"
	case ChannelEmail:
		return "OTP sent via email"
	case ChannelSMS:
		return "OTP sent via SMS"
	case ChannelTelegram:
		return "OTP sent via Telegram"
	default:
		return ""
	}
}
