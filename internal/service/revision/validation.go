package revision

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docjays/internal/config"
	"docjays/internal/domain"
	"docjays/internal/domain/models"
	"docjays/internal/domain/services"
)

// validateCreateRequest checks a creation request's fields before any
// persistence work happens.
func validateCreateRequest(req *services.CreateRevisionRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxRevisionTitleLength),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxRevisionDescriptionLength)),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Status,
			validation.In("", string(models.StatusDraft), string(models.StatusProposed)).
				Error("status must be draft or proposed"),
		),
		validation.Field(&req.AuthorType,
			validation.In("", string(models.AuthorHuman), string(models.AuthorAI)).
				Error("author_type must be human or ai"),
		),
		validation.Field(&req.SourceClient, validation.Length(0, config.MaxSourceClientLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateRejectRequest bounds the optional rejection note. A nil request is
// a bare rejection and always valid.
func validateRejectRequest(req *services.RejectRevisionRequest) error {
	if req == nil || req.Reason == nil {
		return nil
	}
	if len(*req.Reason) > config.MaxRejectReasonLength {
		return fmt.Errorf("%w: rejection reason exceeds %d characters", domain.ErrValidation, config.MaxRejectReasonLength)
	}
	return nil
}
