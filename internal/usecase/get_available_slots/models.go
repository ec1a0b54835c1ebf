package get_available_slots

import (
	"time"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID  int64     // ID услуги
	Date       time.Time // Календарная дата (время и часовой пояс игнорируются)
	EmployeeID *int64    // ID сотрудника (опционально, иначе выбирается автоматически)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       time.Time // Дата в часовом поясе бизнеса
	ServiceID  int64     // ID услуги
	EmployeeID int64     // ID сотрудника, для которого посчитаны слоты
	Slots      []Slot    // Свободные слоты по возрастанию времени начала
}

// Slot модель свободного слота
type Slot struct {
	StartTime  time.Time
	EndTime    time.Time
	EmployeeID int64
}
