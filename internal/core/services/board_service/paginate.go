package board_service

import "github.com/suchimauz/appointment-board/internal/core/domain"

const DefaultPageSize = 6

// Paginate возвращает страницу упорядоченной последовательности.
// Всегда есть хотя бы одна страница, номер приводится к [1, totalPages].
func Paginate[T any](seq []T, pageSize, page int) domain.Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (len(seq) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(seq) {
		end = len(seq)
	}

	items := make([]T, end-start)
	copy(items, seq[start:end])

	return domain.Page[T]{
		Items:      items,
		TotalPages: totalPages,
		Page:       page,
	}
}
