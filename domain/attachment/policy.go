package attachment

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"worktrack/services/messaging/utils/platformerrors"
)

// Field identifies the upload target an attachment is validated against.
type Field string

const (
	FieldProfilePhoto      Field = "profile_photo"
	FieldIdentityDocument  Field = "identity_document"
	FieldEducationDocument Field = "education_document"
	FieldCV                Field = "cv"
	FieldChatAttachment    Field = "chat_attachment"
)

const mib = 1 << 20

// Policy is the size and type rule set for one upload target.
type Policy struct {
	Field        Field
	MaxBytes     int64
	AllowedMIMEs map[string]struct{}
}

func mimeSet(types ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

var policies = map[Field]Policy{
	FieldProfilePhoto: {
		Field:        FieldProfilePhoto,
		MaxBytes:     1 * mib,
		AllowedMIMEs: mimeSet("image/jpeg", "image/png"),
	},
	FieldIdentityDocument: {
		Field:        FieldIdentityDocument,
		MaxBytes:     2 * mib,
		AllowedMIMEs: mimeSet("application/pdf", "image/jpeg", "image/png"),
	},
	FieldEducationDocument: {
		Field:        FieldEducationDocument,
		MaxBytes:     2 * mib,
		AllowedMIMEs: mimeSet("application/pdf", "image/jpeg", "image/png"),
	},
	FieldCV: {
		Field:        FieldCV,
		MaxBytes:     2 * mib,
		AllowedMIMEs: mimeSet("application/pdf"),
	},
	FieldChatAttachment: {
		Field:    FieldChatAttachment,
		MaxBytes: 10 * mib,
		AllowedMIMEs: mimeSet(
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"application/pdf", "application/zip", "text/plain; charset=utf-8",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		),
	},
}

// PolicyFor returns the configured policy for an upload target.
func PolicyFor(field Field) (Policy, bool) {
	p, ok := policies[field]
	return p, ok
}

// Upload is an outgoing file selected by the user.
type Upload struct {
	Filename string
	Data     []byte
}

// Validate checks an upload against the target field's policy before any
// network call. The returned error reports both the configured limit and
// the observed size/type so the caller can render an actionable message.
func Validate(field Field, up Upload) error {
	policy, ok := policies[field]
	if !ok {
		return platformerrors.Validation("unknown upload target").WithContext("field", string(field))
	}

	if int64(len(up.Data)) > policy.MaxBytes {
		return platformerrors.Validation(
			fmt.Sprintf("%s exceeds the %d byte limit (got %d bytes)", up.Filename, policy.MaxBytes, len(up.Data)),
		).
			WithContext("field", string(field)).
			WithContext("limit_bytes", policy.MaxBytes).
			WithContext("actual_bytes", int64(len(up.Data)))
	}

	detected := mimetype.Detect(up.Data)
	if !allowedMIME(policy, detected) {
		return platformerrors.Validation(
			fmt.Sprintf("%s has unsupported type %s", up.Filename, detected.String()),
		).
			WithContext("field", string(field)).
			WithContext("allowed_types", allowedList(policy)).
			WithContext("actual_type", detected.String())
	}

	return nil
}

func allowedMIME(policy Policy, detected *mimetype.MIME) bool {
	for allowed := range policy.AllowedMIMEs {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

func allowedList(policy Policy) []string {
	list := make([]string, 0, len(policy.AllowedMIMEs))
	for allowed := range policy.AllowedMIMEs {
		list = append(list, allowed)
	}
	return list
}
