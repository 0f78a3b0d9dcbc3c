package billing

import (
	"context"

	"github.com/MOR6969/vape-bill/internal/history"
	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/MOR6969/vape-bill/pkg/enums"
	pkgerrors "github.com/MOR6969/vape-bill/pkg/errors"
)

func (s *service) Export(ctx context.Context, id string, input ExportInput) (*ExportResult, error) {
	kind, err := enums.ParseExportKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid export kind").
			WithDetails(map[string]any{"kind": input.Kind})
	}
	format, err := enums.ParseExportFormat(input.Format)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid export format").
			WithDetails(map[string]any{"format": input.Format})
	}

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithFields(s.logg.WithSessionID(ctx, session.ID), map[string]any{
		"export_kind":   string(kind),
		"export_format": string(format),
	})

	if session.Ledger.IsEmpty() {
		s.observeExport(kind, format, "empty")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, EmptyExportMessage)
	}

	doc := s.builder.Build(invoice.BuildInput{
		Kind:     kind,
		Ledger:   session.Ledger,
		Customer: session.Customer,
		Language: session.Language,
	})
	file, err := invoice.Render(doc, format)
	if err != nil {
		s.observeExport(kind, format, "error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render document")
	}

	if kind == enums.ExportKindFull && s.history != nil {
		_, err := s.history.Record(ctx, history.RecordInput{
			DocumentID:  doc.ID.Int64(),
			ReferenceNo: doc.ReferenceNo,
			IssuedAt:    doc.IssuedAt,
			Customer:    session.Customer,
			Language:    doc.Language,
			Ledger:      session.Ledger,
		})
		if err != nil {
			s.logg.Error(s.logg.WithReference(ctx, doc.ReferenceNo), "billing history record failed", err)
		}
	}

	s.observeExport(kind, format, "ok")
	s.logg.Info(s.logg.WithReference(ctx, doc.ReferenceNo), "billing document exported")
	return &ExportResult{Document: doc, File: file}, nil
}

func (s *service) observeExport(kind enums.ExportKind, format enums.ExportFormat, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveExport(string(kind), string(format), outcome)
}
