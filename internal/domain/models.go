package domain

import "time"

// MenuItem представляет блюдо или напиток в меню ресторана
type MenuItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Stock       int64     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderItem позиция в заказе
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// Статусы заказа по умолчанию. PATCH принимает произвольную строку,
// конечного автомата состояний нет.
const (
	OrderStatusPending    = "pendiente"
	OrderStatusInProgress = "en-progreso"
	OrderStatusCompleted  = "completado"
	OrderStatusCancelled  = "cancelado"
)

// Order сущность заказа
type Order struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Reservation бронь столика. GoogleEventID связывает строку с зеркальным
// событием в Google Calendar; у зеркалированной брони он непустой.
type Reservation struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Date          string    `json:"date"` // YYYY-MM-DD
	Time          string    `json:"time"` // HH:MM
	People        int64     `json:"people"`
	TableNumber   string    `json:"table_number"`
	Status        string    `json:"status"`
	Observations  string    `json:"observations"`
	GoogleEventID string    `json:"google_event_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const ReservationStatusConfirmed = "confirmed"

// Event представление события календаря для дашборда: сырые поля события
// плюс поля брони, восстановленные из summary/description.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Status      string `json:"status,omitempty"`
	HTMLLink    string `json:"htmlLink,omitempty"`

	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	People       int64  `json:"people"`
	Table        string `json:"table"`
	Observations string `json:"observations,omitempty"`
}
