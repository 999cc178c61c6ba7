package entity

// FormData holds in-progress transaction form input. Every field is optional.
type FormData struct {
	TrxType        string `json:"trx_type,omitempty"`
	FormType       string `json:"form_type,omitempty"`
	CompanyCode    string `json:"company_code,omitempty"`
	BusinessArea   string `json:"business_area,omitempty"`
	CostCenter     string `json:"cost_center,omitempty"`
	ProfitCenter   string `json:"profit_center,omitempty"`
	BP             string `json:"bp,omitempty"`
	BPName         string `json:"bp_name,omitempty"`
	BankAccount    string `json:"bank_account,omitempty"`
	BankName       string `json:"bank_name,omitempty"`
	BankKey        string `json:"bank_key,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Amount         string `json:"amount,omitempty"`
	TaxCode        string `json:"tax_code,omitempty"`
	WHTType        string `json:"wht_type,omitempty"`
	WHTCode        string `json:"wht_code,omitempty"`
	GLAccount      string `json:"gl_account,omitempty"`
	Material       string `json:"material,omitempty"`
	MaterialGroup  string `json:"material_group,omitempty"`
	Description    string `json:"description,omitempty"`
	InvoiceNumber  string `json:"invoice_number,omitempty"`
	InvoiceDate    string `json:"invoice_date,omitempty"`
	PostingDate    string `json:"posting_date,omitempty"`
	DueDate        string `json:"due_date,omitempty"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	Reference      string `json:"reference,omitempty"`
	Remark         string `json:"remark,omitempty"`
	AttachmentNote string `json:"attachment_note,omitempty"`
}

// FormField is a named form value
type FormField struct {
	Name  string
	Value string
}

// Fields returns every form value keyed by its JSON name, in declaration order
func (f FormData) Fields() []FormField {
	return []FormField{
		{"trx_type", f.TrxType},
		{"form_type", f.FormType},
		{"company_code", f.CompanyCode},
		{"business_area", f.BusinessArea},
		{"cost_center", f.CostCenter},
		{"profit_center", f.ProfitCenter},
		{"bp", f.BP},
		{"bp_name", f.BPName},
		{"bank_account", f.BankAccount},
		{"bank_name", f.BankName},
		{"bank_key", f.BankKey},
		{"currency", f.Currency},
		{"amount", f.Amount},
		{"tax_code", f.TaxCode},
		{"wht_type", f.WHTType},
		{"wht_code", f.WHTCode},
		{"gl_account", f.GLAccount},
		{"material", f.Material},
		{"material_group", f.MaterialGroup},
		{"description", f.Description},
		{"invoice_number", f.InvoiceNumber},
		{"invoice_date", f.InvoiceDate},
		{"posting_date", f.PostingDate},
		{"due_date", f.DueDate},
		{"payment_method", f.PaymentMethod},
		{"reference", f.Reference},
		{"remark", f.Remark},
		{"attachment_note", f.AttachmentNote},
	}
}

// Get returns the value of the named field and whether the name is known
func (f FormData) Get(name string) (string, bool) {
	for _, field := range f.Fields() {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}
