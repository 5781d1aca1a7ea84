package get_available_slots

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID    int64      // ID пользователя (для логирования, не влияет на результат)
	KitchenID int64      // ID кухни
	Date      types.Date // Календарная дата в поясе локации
}

// Response модель ответа с окнами и слотами кухни на дату
type Response struct {
	Date       types.Date
	KitchenID  int64
	LocationID int64
	Timezone   string
	IsActive   bool // неактивная кухня не принимает бронирования, слотов нет

	Windows []domain.TimeWindow
	Limit   Limit
	Policy  Policy
	Slots   []domain.AvailableSlot
}

// Limit действующий лимит слот-часов на шефа и его источник
type Limit struct {
	MaxSlotsPerChef int
	Source          capacity.Source
}

// Policy сводка политики локации для бронирующего
type Policy struct {
	MinimumBookingWindowHours int
	CancellationPolicyHours   *int
	CancellationPolicyMessage string
}
