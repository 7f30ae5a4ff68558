package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/middleware"
)

// WaitlistClient wraps the waitlist-record surface of the core API.
type WaitlistClient struct {
	client *Client
}

func NewWaitlistClient(client *Client) *WaitlistClient {
	return &WaitlistClient{client: client}
}

func (c *WaitlistClient) ListByTemplate(ctx context.Context, sess middleware.Session, templateID uuid.UUID) ([]domain.WaitlistRecord, error) {
	url := fmt.Sprintf("%s/waitlist-records?courseTemplateId=%s", c.client.centerPath(sess), templateID)
	return c.list(ctx, sess, url)
}

func (c *WaitlistClient) ListByAttendee(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.WaitlistRecord, error) {
	url := fmt.Sprintf("%s/waitlist-records?attendeeId=%s", c.client.centerPath(sess), attendeeID)
	return c.list(ctx, sess, url)
}

func (c *WaitlistClient) list(ctx context.Context, sess middleware.Session, url string) ([]domain.WaitlistRecord, error) {
	records, err := getJSON[[]domain.WaitlistRecord](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.WaitlistRecord{}
	}
	return records, nil
}

// Create adds an attendee to a template's waitlist with status WAITING.
func (c *WaitlistClient) Create(ctx context.Context, sess middleware.Session, attendeeID, templateID uuid.UUID) (*domain.WaitlistRecord, error) {
	url := c.client.centerPath(sess) + "/waitlist-records"
	body := map[string]string{
		"attendeeId":       attendeeID.String(),
		"courseTemplateId": templateID.String(),
		"status":           string(domain.WaitlistWaiting),
	}
	record, err := writeJSON[domain.WaitlistRecord](ctx, c.client, sess, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *WaitlistClient) Delete(ctx context.Context, sess middleware.Session, recordID uuid.UUID) error {
	url := fmt.Sprintf("%s/waitlist-records/%s", c.client.centerPath(sess), recordID)
	return deleteReq(ctx, c.client, sess, url)
}
