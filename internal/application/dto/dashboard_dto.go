package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/resumen.
type DashboardSummaryDTO struct {
	Today PaymentTotalsDTO `json:"hoy"`
	Month PaymentTotalsDTO `json:"mes"`

	// Comprobantes por estado (DRAFT, SIGNED, SUBMITTED, ACCEPTED, REJECTED)
	Comprobantes map[string]int `json:"comprobantes"`

	DateLabel string `json:"date_label"` // ej: "Marzo 2024"
}
