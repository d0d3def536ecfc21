package sources

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// jsonRPCRequest is the envelope for Odoo's JSON-RPC endpoint
type jsonRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  jsonRPCParams `json:"params"`
	ID      int64         `json:"id"`
}

// jsonRPCParams addresses a method on one of Odoo's RPC services
type jsonRPCParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

// jsonRPCResponse is the envelope for Odoo's JSON-RPC responses
type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonRPCError   `json:"error"`
}

// jsonRPCError is an error reported by the Odoo server
type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *jsonRPCError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("odoo: %s: %s", e.Message, e.Data.Message)
	}
	return fmt.Sprintf("odoo: %s", e.Message)
}

// odooString is a string field that Odoo serializes as boolean false
// when empty
type odooString string

// UnmarshalJSON accepts either a JSON string or the literal false
func (s *odooString) UnmarshalJSON(data []byte) error {
	if string(data) == "false" {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = odooString(v)
	return nil
}

func (s odooString) String() string {
	return string(s)
}

// OdooProduct is a product.template record from search_read
type OdooProduct struct {
	ID            int64      `json:"id"`
	DefaultCode   odooString `json:"default_code"`
	Barcode       odooString `json:"barcode"`
	Name          string     `json:"name"`
	DescriptionHTML odooString `json:"description"`
	DescriptionSale odooString `json:"description_sale"`
	ListPrice     float64    `json:"list_price"`
	StandardPrice float64    `json:"standard_price"`
	Weight        float64    `json:"weight"`
	Active        bool       `json:"active"`
	SaleOK        bool       `json:"sale_ok"`
	CategoryName  odooString `json:"categ_id_name"`

	// CategID arrives as [id, "display name"] tuples
	CategID []any `json:"categ_id"`
}

// SourceCode returns the source this record came from
func (p OdooProduct) SourceCode() sync.SourceCode {
	return sync.SourceCodeOdoo
}

// Ref returns a human-readable reference for error reporting
func (p OdooProduct) Ref() string {
	if p.DefaultCode != "" {
		return p.DefaultCode.String()
	}
	return "odoo:" + strconv.FormatInt(p.ID, 10)
}

// categoryName extracts the display name from the categ_id tuple
func (p OdooProduct) categoryName() string {
	if len(p.CategID) == 2 {
		if name, ok := p.CategID[1].(string); ok {
			return name
		}
	}
	return p.CategoryName.String()
}

// odooProductFields is the field list requested from search_read
var odooProductFields = []string{
	"id", "default_code", "barcode", "name", "description",
	"description_sale", "list_price", "standard_price", "weight",
	"active", "sale_ok", "categ_id",
}

// Ensure OdooProduct implements NativeRecord interface
var _ sync.NativeRecord = OdooProduct{}
