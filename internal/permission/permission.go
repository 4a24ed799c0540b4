// Package permission calcula as permissões efetivas de um usuário: padrões
// do papel com sobreposição explícita por flag.
package permission

import (
	"encoding/json"
	"sort"
	"strings"
)

// Flags reconhecidas. Os valores são as chaves gravadas em usuarios.permissoes.
const (
	ViewActivation    = "ver_ativar_casa"
	ViewLaunches      = "ver_lancamentos"
	ViewDashboard     = "ver_dashboard"
	ViewServicesAdmin = "ver_servicos"
	ViewLogs          = "ver_logs"
	ViewAdminPanel    = "ver_admin"
	EditLaunches      = "editar_lancamentos"
	EditServicesAdmin = "editar_servicos"
	EditUsers         = "editar_usuarios"
	CorrectRecords    = "corrigir_registros"
)

// Flags todas as flags, em ordem de exibição.
var Flags = []string{
	ViewActivation,
	ViewLaunches,
	ViewDashboard,
	ViewServicesAdmin,
	ViewLogs,
	ViewAdminPanel,
	EditLaunches,
	EditServicesAdmin,
	EditUsers,
	CorrectRecords,
}

// Telas consultadas por CanView.
const (
	FeatureActivation    = "ativar_casa"
	FeatureLaunches      = "lancamentos"
	FeatureDashboard     = "dashboard"
	FeatureServicesAdmin = "servicos"
	FeatureLogs          = "logs"
	FeatureAdminPanel    = "admin"
)

// Ações consultadas por CanEdit.
const (
	ActionLaunches      = "lancamentos"
	ActionServicesAdmin = "servicos"
	ActionUsers         = "usuarios"
	ActionCorrections   = "correcoes"
)

var viewFlags = map[string]string{
	FeatureActivation:    ViewActivation,
	FeatureLaunches:      ViewLaunches,
	FeatureDashboard:     ViewDashboard,
	FeatureServicesAdmin: ViewServicesAdmin,
	FeatureLogs:          ViewLogs,
	FeatureAdminPanel:    ViewAdminPanel,
}

var editFlags = map[string]string{
	ActionLaunches:      EditLaunches,
	ActionServicesAdmin: EditServicesAdmin,
	ActionUsers:         EditUsers,
	ActionCorrections:   CorrectRecords,
}

// Set conjunto tipado de permissões.
type Set struct {
	ViewActivation    bool `json:"ver_ativar_casa"`
	ViewLaunches      bool `json:"ver_lancamentos"`
	ViewDashboard     bool `json:"ver_dashboard"`
	ViewServicesAdmin bool `json:"ver_servicos"`
	ViewLogs          bool `json:"ver_logs"`
	ViewAdminPanel    bool `json:"ver_admin"`
	EditLaunches      bool `json:"editar_lancamentos"`
	EditServicesAdmin bool `json:"editar_servicos"`
	EditUsers         bool `json:"editar_usuarios"`
	CorrectRecords    bool `json:"corrigir_registros"`
}

// Defaults padrões do papel: admin tudo; demais usuários só operação de campo.
func Defaults(role string) Set {
	if role == "admin" {
		return Set{
			ViewActivation:    true,
			ViewLaunches:      true,
			ViewDashboard:     true,
			ViewServicesAdmin: true,
			ViewLogs:          true,
			ViewAdminPanel:    true,
			EditLaunches:      true,
			EditServicesAdmin: true,
			EditUsers:         true,
			CorrectRecords:    true,
		}
	}
	return Set{
		ViewActivation: true,
		ViewLaunches:   true,
		ViewDashboard:  true,
		EditLaunches:   true,
	}
}

// EffectivePermissions aplica as sobreposições sobre os padrões do papel.
// Uma chave presente no mapa vence sempre, inclusive false sobre admin.
// Chaves desconhecidas são ignoradas.
func EffectivePermissions(role string, overrides map[string]bool) Set {
	s := Defaults(role)
	for flag, v := range overrides {
		if p := s.field(flag); p != nil {
			*p = v
		}
	}
	return s
}

// Has consulta uma flag; flag desconhecida é false.
func (s Set) Has(flag string) bool {
	if p := s.field(flag); p != nil {
		return *p
	}
	return false
}

// CanView tela sem flag associada é visível para todos.
func (s Set) CanView(feature string) bool {
	flag, ok := viewFlags[feature]
	if !ok {
		return true
	}
	return s.Has(flag)
}

// CanEdit ação sem flag associada é negada.
func (s Set) CanEdit(action string) bool {
	flag, ok := editFlags[action]
	if !ok {
		return false
	}
	return s.Has(flag)
}

// Map flag→valor, para respostas e auditoria.
func (s Set) Map() map[string]bool {
	m := make(map[string]bool, len(Flags))
	for _, f := range Flags {
		m[f] = s.Has(f)
	}
	return m
}

// Granted flags ativas, em ordem de Flags.
func (s Set) Granted() []string {
	out := make([]string, 0, len(Flags))
	for _, f := range Flags {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s *Set) field(flag string) *bool {
	switch flag {
	case ViewActivation:
		return &s.ViewActivation
	case ViewLaunches:
		return &s.ViewLaunches
	case ViewDashboard:
		return &s.ViewDashboard
	case ViewServicesAdmin:
		return &s.ViewServicesAdmin
	case ViewLogs:
		return &s.ViewLogs
	case ViewAdminPanel:
		return &s.ViewAdminPanel
	case EditLaunches:
		return &s.EditLaunches
	case EditServicesAdmin:
		return &s.EditServicesAdmin
	case EditUsers:
		return &s.EditUsers
	case CorrectRecords:
		return &s.CorrectRecords
	}
	return nil
}

// IsKnown informa se flag é uma das flags reconhecidas.
func IsKnown(flag string) bool {
	var s Set
	return s.field(flag) != nil
}

// ParseOverrides lê o JSON de usuarios.permissoes. Aceita booleanos, "true"/"false"
// e 0/1, valores gravados por versões antigas. Vazio ou null resulta em mapa vazio.
func ParseOverrides(raw []byte) (map[string]bool, error) {
	out := map[string]bool{}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return out, nil
	}

	var loose map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &loose); err != nil {
		return nil, err
	}
	for k, v := range loose {
		switch val := v.(type) {
		case bool:
			out[k] = val
		case float64:
			out[k] = val != 0
		case string:
			switch strings.ToLower(strings.TrimSpace(val)) {
			case "true", "1", "sim":
				out[k] = true
			case "false", "0", "nao", "não":
				out[k] = false
			}
		}
	}
	return out, nil
}

// EncodeOverrides serializa o mapa com chaves ordenadas, descartando flags desconhecidas.
func EncodeOverrides(overrides map[string]bool) ([]byte, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		if IsKnown(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	clean := make(map[string]bool, len(keys))
	for _, k := range keys {
		clean[k] = overrides[k]
	}
	return json.Marshal(clean)
}
