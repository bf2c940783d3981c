package inventory

import (
	"strings"
	"unicode"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Detector reconoce lácteos perecibles y centros de distribución. El atributo
// explícito del snapshot manda; las palabras clave sólo se usan si falta.
type Detector struct {
	kw KeywordParams
}

// NewDetector construye el detector con sus palabras clave.
func NewDetector(kw KeywordParams) Detector {
	return Detector{kw: kw}
}

// IsPerishableDairy lácteo de alta rotación (excluye variantes en polvo).
func (d Detector) IsPerishableDairy(p *entity.ProductSnapshot) bool {
	if p.Category != "" {
		return p.Category == entity.CategoryPerishableDairy
	}
	text := fold(p.Name + " " + p.CategoryName)
	return containsAny(text, d.kw.Dairy) && !containsAny(text, d.kw.DairyExclude)
}

// IsDistribution bodega que abastece a otras sucursales.
func (d Detector) IsDistribution(w entity.Warehouse) bool {
	if w.Role != "" {
		return w.Role == entity.WarehouseRoleDistribution
	}
	return containsAny(fold(w.Name), d.kw.Distribution)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, fold(k)) {
			return true
		}
	}
	return false
}

// fold mayúsculas sin tildes ("Almacén" → "ALMACEN").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}
