package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentLink  AttachmentType = "link"
	AttachmentPDF   AttachmentType = "pdf"
	AttachmentDoc   AttachmentType = "doc"
	AttachmentDocx  AttachmentType = "docx"
)

func (t AttachmentType) Valid() bool {
	switch t {
	case AttachmentImage, AttachmentLink, AttachmentPDF, AttachmentDoc, AttachmentDocx:
		return true
	}
	return false
}

// Attachment is a file or link attached to a payment request or used as a
// receipt. Data holds a URL for links and the encoded payload otherwise.
type Attachment struct {
	Type AttachmentType `json:"type"`
	Data string         `json:"value"`
	Name *string        `json:"name,omitempty"`
}

func (a Attachment) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("unknown attachment type %q", a.Type)
	}
	if a.Data == "" {
		return fmt.Errorf("attachment value is empty")
	}
	return nil
}

func (a Attachment) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Attachment) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil || b == nil {
		return err
	}
	return json.Unmarshal(b, a)
}

type Attachments []Attachment

func (as Attachments) Validate() error {
	for i, a := range as {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("attachment %d: %w", i, err)
		}
	}
	return nil
}

func (as Attachments) Value() (driver.Value, error) {
	if as == nil {
		return nil, nil
	}
	b, err := json.Marshal([]Attachment(as))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (as *Attachments) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if b == nil {
		*as = nil
		return nil
	}
	return json.Unmarshal(b, as)
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb source %T", src)
	}
}
