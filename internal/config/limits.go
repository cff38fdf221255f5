package config

const (
	// MaxRevisionTitleLength is the maximum length for revision titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxRevisionTitleLength = 255

	// MaxRevisionDescriptionLength bounds the free-form description field.
	MaxRevisionDescriptionLength = 2000

	// MaxRejectReasonLength bounds the optional reviewer note recorded on
	// rejection.
	MaxRejectReasonLength = 2000

	// MaxSourceClientLength bounds the opaque client identifier stamped on
	// each revision (editor, cli, assistant, ...).
	MaxSourceClientLength = 64
)
