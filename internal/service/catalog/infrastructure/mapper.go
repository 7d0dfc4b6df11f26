package infrastructure

import "bookhub/internal/service/catalog/domain"

// ToDomainBook 将数据库模型转换为领域模型
func ToDomainBook(m *BookModel) *domain.Book {
	if m == nil {
		return nil
	}
	return &domain.Book{
		ID: m.ID,
		BookAttributes: domain.BookAttributes{
			Title:              m.Title,
			Description:        m.Description,
			Author:             m.Author,
			Genre:              m.Genre,
			PublishDate:        m.PublishDate,
			Publisher:          m.Publisher,
			Language:           m.Language,
			Format:             m.Format,
			ISBN:               m.ISBN,
			Price:              m.Price,
			Quantity:           m.Quantity,
			Discount:           m.Discount,
			AwardWinner:        m.AwardWinner,
			AvailableInLibrary: m.AvailableInLibrary,
			IsOnSale:           m.IsOnSale,
		},
		Image:     m.Image,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomainBook 将领域模型转换为数据库模型
func FromDomainBook(b *domain.Book) *BookModel {
	return &BookModel{
		ID:                 b.ID,
		Title:              b.Title,
		Description:        b.Description,
		Author:             b.Author,
		Genre:              b.Genre,
		Image:              b.Image,
		PublishDate:        b.PublishDate,
		Publisher:          b.Publisher,
		Language:           b.Language,
		Format:             b.Format,
		ISBN:               b.ISBN,
		Price:              b.Price,
		Quantity:           b.Quantity,
		Discount:           b.Discount,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		AwardWinner:        b.AwardWinner,
		AvailableInLibrary: b.AvailableInLibrary,
		IsOnSale:           b.IsOnSale,
		CreatedAt:          b.CreatedAt,
	}
}

func toDomainBooks(models []BookModel) []*domain.Book {
	out := make([]*domain.Book, 0, len(models))
	for i := range models {
		out = append(out, ToDomainBook(&models[i]))
	}
	return out
}

func ToDomainAnnouncement(m *AnnouncementModel) *domain.Announcement {
	return &domain.Announcement{
		ID:        m.ID,
		Message:   m.Message,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

func FromDomainAnnouncement(a *domain.Announcement) *AnnouncementModel {
	return &AnnouncementModel{
		ID:        a.ID,
		Message:   a.Message,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
	}
}
