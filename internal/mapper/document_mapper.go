package mapper

import (
	"ai-writingpad-be/internal/dto"
	"ai-writingpad-be/internal/entity"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToResponse(d *entity.Document) *dto.DocumentResponse {
	if d == nil {
		return nil
	}

	return &dto.DocumentResponse{
		Id:        d.Id,
		Name:      d.Name,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToSummary(d *entity.Document) dto.DocumentSummary {
	return dto.DocumentSummary{
		Id:        d.Id,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToSearchResult(d *entity.Document, score float64, searchType string) dto.SearchResult {
	return dto.SearchResult{
		DocumentSummary: m.ToSummary(d),
		Score:           score,
		SearchType:      searchType,
	}
}
