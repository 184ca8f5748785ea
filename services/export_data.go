package services

// EstimateDocData holds everything needed to render a client estimate as a
// PDF or Excel document.
type EstimateDocData struct {
	ProjectName string
	ClientName  string
	CompanyName string
	CreateDate  string
	ExpiryDate  string
	DefaultRate float64
	Lines       []PricedLine
	Subtotal    int64
	Tax         int64
	GrandTotal  int64
}

// InvoiceLine is one flat invoice row; amounts are entered directly, no
// margin logic applies.
type InvoiceLine struct {
	Description string
	Amount      int64
}

// InvoiceDocData holds everything needed to render an invoice PDF.
type InvoiceDocData struct {
	InvoiceID   string
	CompanyName string
	ClientName  string
	IssueDate   string
	Lines       []InvoiceLine
	Total       int64
}
