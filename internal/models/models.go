package models

// LoginRequest - тело запроса входа по идентификатору пользователя
type LoginRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// LoginResponse - ответ при успешном входе
type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ScheduleResponse - окно бронирования (рабочие дни на две недели вперед)
type ScheduleResponse struct {
	Days []string `json:"days"`
}

// SeatAvailabilityItem - элемент карты рассадки на дату
type SeatAvailabilityItem struct {
	SeatID    string     `json:"seat_id"`
	Table     string     `json:"table"`
	OpenSlots []TimeSlot `json:"open_slots"`
	Bookable  bool       `json:"bookable"`
	OwnedByMe bool       `json:"owned_by_me"`
}

// ListSeatsResponse - карта рассадки на дату
type ListSeatsResponse struct {
	Date  string                 `json:"date"`
	Seats []SeatAvailabilityItem `json:"seats"`
}

// TimeslotsResponse - открытые слоты для места на дату
type TimeslotsResponse struct {
	SeatID    string     `json:"seat_id"`
	Date      string     `json:"date"`
	OpenSlots []TimeSlot `json:"open_slots"`
}

// CreateBookingRequest - модель для создания бронирования
type CreateBookingRequest struct {
	SeatID   string   `json:"seat_id" binding:"required"`
	Date     string   `json:"date" binding:"required"`
	TimeSlot TimeSlot `json:"time_slot" binding:"required"`
}

// CreateBookingResponse - модель ответа при создании бронирования
type CreateBookingResponse struct {
	Booking BookingRecord `json:"booking"`
}

// ListBookingsResponse - активные бронирования пользователя
type ListBookingsResponse struct {
	Bookings []BookingRecord `json:"bookings"`
}

// CancelBookingRequest - модель для отмены бронирования
type CancelBookingRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// BatchUpdateRequest - пакет изменений: seat_id -> date -> желаемое состояние
type BatchUpdateRequest struct {
	Modifications map[string]map[string]bool `json:"modifications" binding:"required"`
}

// BatchOperation - одна применённая операция пакета
type BatchOperation struct {
	Action string `json:"action"` // "create" или "cancel"
	SeatID string `json:"seat_id"`
	Date   string `json:"date"`
}

// BatchFailure - ошибка одной пары (seat, date) пакета
type BatchFailure struct {
	SeatID string `json:"seat_id"`
	Date   string `json:"date"`
	Error  string `json:"error"`
}

// BatchUpdateResponse - результат применения пакета; rollback не выполняется
type BatchUpdateResponse struct {
	Applied  []BatchOperation `json:"applied"`
	Failures []BatchFailure   `json:"failures,omitempty"`
}
