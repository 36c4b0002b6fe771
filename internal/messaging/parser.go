package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/citimaster/booking-platform/internal/conversation"
)

// webhookPayload mirrors the WhatsApp Cloud API webhook envelope,
// reduced to the fields the platform consumes.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Interactive struct {
						Type        string `json:"type"`
						ButtonReply struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"button_reply"`
						ListReply struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"list_reply"`
					} `json:"interactive"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook extracts conversation events from a webhook body.
// Status-only notifications produce an empty slice, not an error.
func ParseWebhook(body []byte) ([]conversation.Event, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("messaging: malformed webhook payload: %w", err)
	}
	if payload.Object != "whatsapp_business_account" {
		return nil, fmt.Errorf("messaging: unexpected webhook object %q", payload.Object)
	}

	var events []conversation.Event
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			names := make(map[string]string, len(change.Value.Contacts))
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			for _, msg := range change.Value.Messages {
				ev := conversation.Event{
					From:         msg.From,
					MessageID:    msg.ID,
					CustomerName: names[msg.From],
				}
				switch msg.Type {
				case "text":
					ev.Type = conversation.EventText
					ev.Text = msg.Text.Body
				case "interactive":
					switch msg.Interactive.Type {
					case "button_reply":
						ev.Type = conversation.EventButtonReply
						ev.ReplyID = msg.Interactive.ButtonReply.ID
						ev.ReplyTitle = msg.Interactive.ButtonReply.Title
					case "list_reply":
						ev.Type = conversation.EventListReply
						ev.ReplyID = msg.Interactive.ListReply.ID
						ev.ReplyTitle = msg.Interactive.ListReply.Title
					default:
						continue
					}
				default:
					// Media, reactions, and location messages are not
					// part of the booking flow yet.
					continue
				}
				events = append(events, ev)
			}
		}
	}
	return events, nil
}
