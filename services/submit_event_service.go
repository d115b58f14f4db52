package services

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"neoevents/errs"
	"neoevents/mailer"
	"neoevents/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EventProposal is the loosely-typed request a user submits: the date and
// price arrive string-encoded and are parsed here at the boundary.
type EventProposal struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	StartDateTime string   `json:"startDateTime"`
	Price         string   `json:"price"`
	Categories    []string `json:"categories"`
}

// ProposalImage is one uploaded image attachment.
type ProposalImage interface {
	Filename() string
	Open() (io.ReadCloser, error)
}

// SubmitEventService mails event proposals to the administrator. Parsing and
// image reads happen on the caller's goroutine; composing and sending the
// email happens in the background, so a transport failure is only visible in
// the server logs.
type SubmitEventService interface {
	SubmitProposal(user *models.User, proposal *EventProposal, images []ProposalImage) error
}

type submitEventService struct {
	sender     mailer.Sender
	adminEmail string
	logger     *zap.Logger
}

var _ SubmitEventService = (*submitEventService)(nil)

// NewSubmitEventService creates a new SubmitEventService instance.
func NewSubmitEventService(sender mailer.Sender, adminEmail string, logger *zap.Logger) SubmitEventService {
	return &submitEventService{sender: sender, adminEmail: adminEmail, logger: logger}
}

type attachment struct {
	filename string
	data     []byte
}

func (s *submitEventService) SubmitProposal(user *models.User, proposal *EventProposal, images []ProposalImage) error {
	event, err := mapProposal(proposal)
	if err != nil {
		return err
	}

	// Read the uploads now: the multipart temp files are gone once the
	// request finishes. A failed read skips that image and is noted in the
	// email body; the proposal itself still goes out.
	attachments := make([]attachment, 0, len(images))
	imagesFailed := false
	for i, image := range images {
		data, err := readImage(image)
		if err != nil {
			s.logger.Error("Failed to process image attachment", zap.String("filename", image.Filename()), zap.Error(err))
			imagesFailed = true
			continue
		}
		ext := filepath.Ext(image.Filename())
		if ext == "" {
			ext = ".jpg"
		}
		filename := fmt.Sprintf("event-image-%d-%d%s", i+1, time.Now().UnixMilli(), ext)
		attachments = append(attachments, attachment{filename: filename, data: data})
	}

	go func() {
		if err := s.sendProposal(user, event, attachments, imagesFailed); err != nil {
			s.logger.Error("Failed to send event proposal email",
				zap.String("user_email", user.Email),
				zap.String("event_name", event.Name),
				zap.Error(err))
		}
	}()
	return nil
}

func (s *submitEventService) sendProposal(user *models.User, event *models.Event, attachments []attachment, imagesFailed bool) error {
	content := fmt.Sprintf(
		"Event Proposal from: %s %s (%s)\n\n"+
			"Event Details:\n"+
			"Name: %s\n"+
			"Description: %s\n"+
			"Address: %s\n"+
			"Date & Time: %s\n"+
			"Price: %.2f\n"+
			"Categories: %v\n",
		user.Name, user.LastName, user.Email,
		event.Name, event.Description, event.Address,
		event.StartDateTime.Format(time.RFC3339), event.Price, event.CategorySet(),
	)
	if imagesFailed {
		content += "\n\nUnfortunately, some or all images could not be loaded."
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.adminEmail)
	m.SetHeader("To", s.adminEmail)
	m.SetHeader("Subject", "New Event Proposal")
	m.SetBody("text/plain", content)

	for _, att := range attachments {
		data := att.data
		m.Attach(att.filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	return s.sender.Send(m)
}

// mapProposal turns the string-encoded request into an event, failing on an
// unparseable date or price or an unknown category name.
func mapProposal(proposal *EventProposal) (*models.Event, error) {
	start, err := parseProposalTime(proposal.StartDateTime)
	if err != nil {
		return nil, errs.NotValid("Invalid start date and time: " + proposal.StartDateTime)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(proposal.Price), 64)
	if err != nil {
		return nil, errs.NotValid("Invalid price: " + proposal.Price)
	}

	categories, err := parseCategories(proposal.Categories)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:          proposal.Name,
		Description:   proposal.Description,
		Address:       proposal.Address,
		StartDateTime: start,
		Price:         price,
	}
	event.SetCategories(categories)
	return event, nil
}

// parseProposalTime accepts RFC 3339 or a zone-less ISO local timestamp.
func parseProposalTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func readImage(image ProposalImage) ([]byte, error) {
	rc, err := image.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
