package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/pkg/ai"
	"github.com/noah-isme/onboard-go-api/pkg/razorpay"
)

type profileRepoStub struct {
	profile   models.StudentProfile
	missing   bool
	saves     int
	payments  []models.FeePayment
	loadErr   error
	saveErr   error
	applyErr  error
	nextDocID uint
}

func (p *profileRepoStub) GetByStudentID(_ context.Context, studentID uint) (models.StudentProfile, error) {
	if p.loadErr != nil {
		return models.StudentProfile{}, p.loadErr
	}
	if p.missing || p.profile.StudentID != studentID {
		return models.StudentProfile{}, gorm.ErrRecordNotFound
	}
	profile := p.profile
	profile.Payments = append([]models.FeePayment(nil), p.payments...)
	return profile, nil
}

func (p *profileRepoStub) Create(_ context.Context, profile *models.StudentProfile) error {
	profile.ID = 1
	p.profile = *profile
	return nil
}

func (p *profileRepoStub) Save(_ context.Context, profile *models.StudentProfile) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves++
	for i := range profile.Documents {
		if profile.Documents[i].ID == 0 {
			p.nextDocID++
			profile.Documents[i].ID = p.nextDocID
		}
	}
	p.profile = *profile
	return nil
}

func (p *profileRepoStub) ApplyPayment(_ context.Context, profile *models.StudentProfile, payment *models.FeePayment) error {
	if p.applyErr != nil {
		return p.applyErr
	}
	payment.ID = uint(len(p.payments) + 1)
	p.payments = append(p.payments, *payment)
	p.saves++
	p.profile = *profile
	return nil
}

func (p *profileRepoStub) HasPayment(_ context.Context, profileID uint, orderID, transactionID string) (bool, error) {
	for _, payment := range p.payments {
		if payment.ProfileID == profileID && payment.OrderID == orderID && payment.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (p *profileRepoStub) ListAll(context.Context) ([]models.StudentProfile, error) {
	return []models.StudentProfile{p.profile}, nil
}

type studentRepoStub struct {
	students map[uint]models.Student
	nextID   uint
}

func (s *studentRepoStub) GetByID(_ context.Context, id uint) (models.Student, error) {
	if student, ok := s.students[id]; ok {
		return student, nil
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (s *studentRepoStub) GetByEmail(_ context.Context, email string) (models.Student, error) {
	for _, student := range s.students {
		if student.Email == email {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (s *studentRepoStub) Create(_ context.Context, student *models.Student) error {
	if s.students == nil {
		s.students = map[uint]models.Student{}
	}
	s.nextID++
	student.ID = s.nextID
	s.students[student.ID] = *student
	return nil
}

type chatRepoStub struct {
	messages []models.ChatMessage
}

func (c *chatRepoStub) Save(_ context.Context, message *models.ChatMessage) error {
	message.ID = uint(len(c.messages) + 1)
	c.messages = append(c.messages, *message)
	return nil
}

func (c *chatRepoStub) ListByStudent(_ context.Context, studentID uint, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, message := range c.messages {
		if message.StudentID == studentID {
			out = append(out, message)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *chatRepoStub) bySender(sender string) []models.ChatMessage {
	var out []models.ChatMessage
	for _, message := range c.messages {
		if message.Sender == sender {
			out = append(out, message)
		}
	}
	return out
}

type classifierStub struct {
	results []ai.Classification
	errs    []error
	calls   int
}

func (c *classifierStub) Classify(context.Context, ai.Document) (ai.Classification, error) {
	idx := c.calls
	c.calls++
	if idx < len(c.errs) && c.errs[idx] != nil {
		return ai.Classification{}, c.errs[idx]
	}
	if idx < len(c.results) {
		return c.results[idx], nil
	}
	return ai.Classification{DocumentType: string(models.DocOther), Confidence: 0}, nil
}

type storageStub struct {
	uploads int
	deleted []string
	fail    bool
}

func (s *storageStub) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if s.fail {
		return "", errors.New("storage unavailable")
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	s.uploads++
	return "https://cdn.example.com/docs/" + name, nil
}

func (s *storageStub) Delete(_ context.Context, storedURL string) error {
	s.deleted = append(s.deleted, storedURL)
	return nil
}

type gatewayStub struct {
	order    razorpay.Order
	fetched  razorpay.Order
	fetchErr error
	orderErr error
	creates  int
	fetches  int
	notes    map[string]string
}

func (g *gatewayStub) lastNotes() map[string]string {
	return g.notes
}

func (g *gatewayStub) CreateOrder(_ context.Context, req razorpay.OrderRequest) (razorpay.Order, error) {
	g.creates++
	g.notes = req.Notes
	if g.orderErr != nil {
		return razorpay.Order{}, g.orderErr
	}
	order := g.order
	if order.ID == "" {
		order.ID = "order_stub"
	}
	order.Amount = req.Amount
	order.Currency = req.Currency
	order.Receipt = req.Receipt
	order.Notes = req.Notes
	return order, nil
}

func (g *gatewayStub) FetchOrder(_ context.Context, orderID string) (razorpay.Order, error) {
	g.fetches++
	if g.fetchErr != nil {
		return razorpay.Order{}, g.fetchErr
	}
	order := g.fetched
	if order.ID == "" {
		order.ID = orderID
	}
	return order, nil
}

type notifierStub struct {
	events []string
}

func (n *notifierStub) Publish(_ context.Context, _ uint, eventType, _ string) error {
	n.events = append(n.events, eventType)
	return nil
}

func (n *notifierStub) List(context.Context, uint, int, int) ([]dto.NotificationResponse, error) {
	return nil, nil
}

func (n *notifierStub) MarkRead(context.Context, uint, uint) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
