package create_booking

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor     domain.Actor     // UserID = 0 для анонимного бронирования
	KitchenID int64            // ID кухни
	Date      types.Date       // Календарная дата в поясе локации
	StartTime types.TimeString // Начало, например "14:00"
	EndTime   types.TimeString // Конец (не включительно)

	// Contact контакт бронирующего. Для анонимного бронирования обязательны имя и email или телефон.
	Contact domain.Contact
	Notes   *string

	// PaymentIntentID hold, полученный клиентом у провайдера заранее (опционально)
	PaymentIntentID *string
}
