package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/middleware"
)

// AttendeeClient wraps the attendee surface of the core API: person CRUD,
// per-attendee courses, remarks, documents and the OCR scan endpoint.
type AttendeeClient struct {
	client *Client

	scanImageTimeout time.Duration
	scanPDFTimeout   time.Duration
}

func NewAttendeeClient(client *Client, scanImageTimeout, scanPDFTimeout time.Duration) *AttendeeClient {
	return &AttendeeClient{
		client:           client,
		scanImageTimeout: scanImageTimeout,
		scanPDFTimeout:   scanPDFTimeout,
	}
}

// AttendeeInput is the write payload for create and update.
type AttendeeInput struct {
	Name      string              `json:"name"`
	Surname   string              `json:"surname"`
	Email     string              `json:"email"`
	Telephone string              `json:"telephone"`
	Rank      domain.AttendeeRank `json:"rank"`
	Remark    string              `json:"remark,omitempty"`
}

func (c *AttendeeClient) List(ctx context.Context, sess middleware.Session) ([]domain.Attendee, error) {
	url := c.client.centerPath(sess) + "/attendees"
	attendees, err := getJSON[[]domain.Attendee](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if attendees == nil {
		attendees = []domain.Attendee{}
	}
	return attendees, nil
}

func (c *AttendeeClient) Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.Attendee, error) {
	url := fmt.Sprintf("%s/attendees/%s", c.client.centerPath(sess), id)
	attendee, err := getJSON[domain.Attendee](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (c *AttendeeClient) Create(ctx context.Context, sess middleware.Session, in AttendeeInput) (*domain.Attendee, error) {
	url := c.client.centerPath(sess) + "/attendees"
	attendee, err := writeJSON[domain.Attendee](ctx, c.client, sess, http.MethodPost, url, in)
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (c *AttendeeClient) Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in AttendeeInput) (*domain.Attendee, error) {
	url := fmt.Sprintf("%s/attendees/%s", c.client.centerPath(sess), id)
	attendee, err := writeJSON[domain.Attendee](ctx, c.client, sess, http.MethodPut, url, in)
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (c *AttendeeClient) Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error {
	url := fmt.Sprintf("%s/attendees/%s", c.client.centerPath(sess), id)
	return deleteReq(ctx, c.client, sess, url)
}

// ListCourses returns the courses an attendee is enrolled in.
func (c *AttendeeClient) ListCourses(ctx context.Context, sess middleware.Session, id uuid.UUID) ([]domain.Course, error) {
	url := fmt.Sprintf("%s/attendees/%s/courses", c.client.centerPath(sess), id)
	courses, err := getJSON[[]domain.Course](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return courses, nil
}

// --- Remarks ---

type RemarkInput struct {
	RemarkText string `json:"remarkText"`
}

func (c *AttendeeClient) ListRemarks(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Remark, error) {
	url := fmt.Sprintf("%s/attendees/%s/remarks", c.client.centerPath(sess), attendeeID)
	remarks, err := getJSON[[]domain.Remark](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if remarks == nil {
		remarks = []domain.Remark{}
	}
	return remarks, nil
}

func (c *AttendeeClient) CreateRemark(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, in RemarkInput) (*domain.Remark, error) {
	url := fmt.Sprintf("%s/attendees/%s/remarks", c.client.centerPath(sess), attendeeID)
	remark, err := writeJSON[domain.Remark](ctx, c.client, sess, http.MethodPost, url, in)
	if err != nil {
		return nil, err
	}
	return &remark, nil
}

// UpdateRemark always issues the PUT, even for unchanged text; the upstream
// refreshes lastUpdatedAt either way.
func (c *AttendeeClient) UpdateRemark(ctx context.Context, sess middleware.Session, attendeeID, remarkID uuid.UUID, in RemarkInput) (*domain.Remark, error) {
	url := fmt.Sprintf("%s/attendees/%s/remarks/%s", c.client.centerPath(sess), attendeeID, remarkID)
	remark, err := writeJSON[domain.Remark](ctx, c.client, sess, http.MethodPut, url, in)
	if err != nil {
		return nil, err
	}
	return &remark, nil
}

func (c *AttendeeClient) DeleteRemark(ctx context.Context, sess middleware.Session, attendeeID, remarkID uuid.UUID) error {
	url := fmt.Sprintf("%s/attendees/%s/remarks/%s", c.client.centerPath(sess), attendeeID, remarkID)
	return deleteReq(ctx, c.client, sess, url)
}

// --- Documents ---

type DocumentInput struct {
	Name       string `json:"name"`
	Number     string `json:"number"`
	IssueDate  string `json:"issueDate,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

func (c *AttendeeClient) ListDocuments(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Document, error) {
	url := fmt.Sprintf("%s/attendees/%s/documents", c.client.centerPath(sess), attendeeID)
	docs, err := getJSON[[]domain.Document](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

func (c *AttendeeClient) CreateDocument(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, in DocumentInput) (*domain.Document, error) {
	url := fmt.Sprintf("%s/attendees/%s/documents", c.client.centerPath(sess), attendeeID)
	doc, err := writeJSON[domain.Document](ctx, c.client, sess, http.MethodPost, url, in)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *AttendeeClient) UpdateDocument(ctx context.Context, sess middleware.Session, attendeeID, documentID uuid.UUID, in DocumentInput) (*domain.Document, error) {
	url := fmt.Sprintf("%s/attendees/%s/documents/%s", c.client.centerPath(sess), attendeeID, documentID)
	doc, err := writeJSON[domain.Document](ctx, c.client, sess, http.MethodPut, url, in)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *AttendeeClient) DeleteDocument(ctx context.Context, sess middleware.Session, attendeeID, documentID uuid.UUID) error {
	url := fmt.Sprintf("%s/attendees/%s/documents/%s", c.client.centerPath(sess), attendeeID, documentID)
	return deleteReq(ctx, c.client, sess, url)
}

// DownloadURL returns a short-lived URL for a stored document file.
func (c *AttendeeClient) DownloadURL(ctx context.Context, sess middleware.Session, attendeeID, documentID, fileID uuid.UUID) (string, error) {
	url := fmt.Sprintf("%s/attendees/%s/documents/%s/files/%s/download-url",
		c.client.centerPath(sess), attendeeID, documentID, fileID)
	out, err := getJSON[struct {
		URL string `json:"url"`
	}](ctx, c.client, sess, url)
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// --- OCR scan ---

// Scan uploads a document image or PDF for OCR extraction. PDFs get a larger
// budget than images; the distinction must survive into the error so the
// dashboard can name the right budget.
func (c *AttendeeClient) Scan(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, filename string, file io.Reader) (*domain.ScanResult, error) {
	kind, budget := c.scanBudget(filename)

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/attendees/%s/ocr", c.client.centerPath(sess), attendeeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(ctx, sess, req)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, &ScanTimeoutError{Kind: kind, Budget: budget}
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var wrapper dataEnvelope[domain.ScanResult]
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

func (c *AttendeeClient) scanBudget(filename string) (kind string, budget time.Duration) {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "pdf", c.scanPDFTimeout
	}
	return "image", c.scanImageTimeout
}
