package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hhtelecom/fieldcapture/app/models"
)

// TemplateVersion tags every exported checklist payload.
const TemplateVersion = "v2.0"

// PhotoItem is one row of the exported photo checklist.
type PhotoItem struct {
	FotoItem   string `json:"foto_item"`
	ArquivoURL string `json:"arquivo_url"`
	GPSLat     string `json:"gps_lat,omitempty"`
	GPSLng     string `json:"gps_lng,omitempty"`
	Observacao string `json:"observacao,omitempty"`
}

// ChecklistPayload is the JSON document sent to the webhook
// integration: the report's opaque form snapshot plus a flat photo
// list with public URLs and GPS tags.
type ChecklistPayload struct {
	RelatorioID    string          `json:"relatorio_id"`
	TimestampISO   string          `json:"timestamp_iso"`
	VersaoTemplate string          `json:"versao_template"`
	Relatorio      json.RawMessage `json:"relatorio"`
	Fotos          []PhotoItem     `json:"fotos"`
}

// BuildChecklistPayload assembles the export document for one report.
// Photos without a remote URL yet are still listed so the checklist
// shows which slots were filled.
func BuildChecklistPayload(report *models.Report, photos []models.Photo) ChecklistPayload {
	fotos := make([]PhotoItem, 0, len(photos))
	for _, p := range photos {
		item := PhotoItem{
			FotoItem:   p.FieldKey,
			ArquivoURL: p.RemoteURL,
		}
		if p.HasCoords() {
			item.GPSLat = fmt.Sprintf("%.6f", *p.Lat)
			item.GPSLng = fmt.Sprintf("%.6f", *p.Lng)
		}
		fotos = append(fotos, item)
	}

	id := report.SiteID
	if id == "" {
		id = report.ID
	}

	payload := report.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	return ChecklistPayload{
		RelatorioID:    id,
		TimestampISO:   time.Now().UTC().Format(time.RFC3339),
		VersaoTemplate: TemplateVersion,
		Relatorio:      json.RawMessage(payload),
		Fotos:          fotos,
	}
}
