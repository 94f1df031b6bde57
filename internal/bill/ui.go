package bill

import (
	"fmt"
	"html/template"
	"strings"
)

// BillsPageData feeds the bills page template. Error takes precedence over
// Loading; with neither set the bills table is rendered.
type BillsPageData struct {
	Bills   []Bill
	Loading bool
	Error   string
}

var billsPage = template.Must(template.New("bills").Funcs(template.FuncMap{
	"formatStatus": FormatStatus,
}).Parse(`<div class="layout" id="layout">
  <div class="content" data-testid="bills-content">
    <div class="content-header">
      <div class="content-title">Mes notes de frais</div>
      <button type="button" data-testid="btn-new-bill" class="btn btn-primary">Nouvelle note de frais</button>
    </div>
{{- if .Error}}
    <div class="error-page">
      <div data-testid="error-message" class="error-message">Erreur<br />{{.Error}}</div>
    </div>
{{- else if .Loading}}
    <div class="loading-page" data-testid="loading-message">Loading...</div>
{{- else}}
    <table id="data-table" class="table">
      <thead>
        <tr>
          <th>Type</th>
          <th>Nom</th>
          <th>Date</th>
          <th>Montant</th>
          <th>Statut</th>
          <th>Actions</th>
        </tr>
      </thead>
      <tbody data-testid="tbody">
{{- range .Bills}}
        <tr>
          <td>{{.Type}}</td>
          <td>{{.Name}}</td>
          <td>{{.Date}}</td>
          <td>{{.Amount}} €</td>
          <td>{{formatStatus .Status}}</td>
          <td><div class="icon-eye" data-testid="icon-eye" data-bill-url="{{.FileURL}}"></div></td>
        </tr>
{{- end}}
      </tbody>
    </table>
{{- end}}
  </div>
</div>
`))

// BillsUI renders the bills page. Bills are expected to be pre-sorted by the
// caller (see SortBillsByDateDesc); rendering does not reorder them.
func BillsUI(data BillsPageData) (string, error) {
	var sb strings.Builder
	if err := billsPage.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering bills page: %w", err)
	}
	return sb.String(), nil
}
