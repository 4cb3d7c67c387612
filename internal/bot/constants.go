package bot

// Dialog steps, in order.
const (
	StepLine           = "line"
	StepModel          = "model"
	StepFurnace        = "furnace"
	StepPaint          = "paint"
	StepLocation       = "location"
	StepCustomDelivery = "custom_delivery"
	StepConfirmation   = "confirmation"
)

// Button labels.
const (
	BtnCancel    = "❌ Anuluj"
	BtnBack      = "⬅️ Wstecz"
	BtnConfirm   = "✅ Potwierdź ofertę"
	BtnNoFurnace = "Bez pieca"
	BtnNoPaint   = "Bez malowania"
	BtnSkip      = "Pomiń"
	BtnNewOffer  = "🧾 Nowa oferta"
)

const currency = "zł"
