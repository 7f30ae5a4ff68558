package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/middleware"
)

// TemplateClient wraps the course-template surface of the core API.
type TemplateClient struct {
	client *Client
}

func NewTemplateClient(client *Client) *TemplateClient {
	return &TemplateClient{client: client}
}

type TemplateInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	MaxSeats    int     `json:"maxSeats"`
	Description string  `json:"description,omitempty"`
}

func (c *TemplateClient) List(ctx context.Context, sess middleware.Session) ([]domain.CourseTemplate, error) {
	url := c.client.centerPath(sess) + "/templates"
	templates, err := getJSON[[]domain.CourseTemplate](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []domain.CourseTemplate{}
	}
	return templates, nil
}

func (c *TemplateClient) Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.CourseTemplate, error) {
	url := fmt.Sprintf("%s/templates/%s", c.client.centerPath(sess), id)
	template, err := getJSON[domain.CourseTemplate](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (c *TemplateClient) Create(ctx context.Context, sess middleware.Session, in TemplateInput) (*domain.CourseTemplate, error) {
	url := c.client.centerPath(sess) + "/templates"
	template, err := writeJSON[domain.CourseTemplate](ctx, c.client, sess, http.MethodPost, url, in)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (c *TemplateClient) Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in TemplateInput) (*domain.CourseTemplate, error) {
	url := fmt.Sprintf("%s/templates/%s", c.client.centerPath(sess), id)
	template, err := writeJSON[domain.CourseTemplate](ctx, c.client, sess, http.MethodPut, url, in)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (c *TemplateClient) Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error {
	url := fmt.Sprintf("%s/templates/%s", c.client.centerPath(sess), id)
	return deleteReq(ctx, c.client, sess, url)
}
