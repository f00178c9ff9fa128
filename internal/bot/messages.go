package bot

import (
	_ "embed"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// Messages is the catalog of user-facing texts. Fields ending in a format
// verb are used with fmt.Sprintf.
type Messages struct {
	Rules               string `yaml:"rules"`
	ButtonDownloadTerms string `yaml:"button_download_terms"`
	ButtonAcceptRules   string `yaml:"button_accept_rules"`
	TermsFileName       string `yaml:"terms_file_name"`
	TermsNotFound       string `yaml:"terms_not_found"`
	RulesAccepted       string `yaml:"rules_accepted"`
	ButtonCheckDocument string `yaml:"button_check_document"`
	SendDocument        string `yaml:"send_document"`

	DocumentTooLarge    string `yaml:"document_too_large"`
	UnsupportedType     string `yaml:"unsupported_type"`
	ProcessingFailed    string `yaml:"processing_failed"`
	PaymentInstructions string `yaml:"payment_instructions"`

	ReceiptTooLarge     string `yaml:"receipt_too_large"`
	ReceiptDuplicate    string `yaml:"receipt_duplicate"`
	ReceiptReadFailed   string `yaml:"receipt_read_failed"`
	ReceiptAccepted     string `yaml:"receipt_accepted"`
	ReceiptRejected     string `yaml:"receipt_rejected"`
	ButtonCheckAnother  string `yaml:"button_check_another"`
	AnalysisUnavailable string `yaml:"analysis_unavailable"`
	DefaultDocumentName string `yaml:"default_document_name"`

	Cancelled     string `yaml:"cancelled"`
	InternalError string `yaml:"internal_error"`

	AdminDenied         string `yaml:"admin_denied"`
	AdminCallbackDenied string `yaml:"admin_callback_denied"`
	AdminPanel          string `yaml:"admin_panel"`
	ButtonAdminStats    string `yaml:"button_admin_stats"`
	ButtonAdminLogs     string `yaml:"button_admin_logs"`
	StatsEmpty          string `yaml:"stats_empty"`
	Stats               string `yaml:"stats"`
	LogsNotFound        string `yaml:"logs_not_found"`
	LogsFileName        string `yaml:"logs_file_name"`
}

// LoadMessages parses the embedded catalog.
func LoadMessages() (*Messages, error) {
	return ParseMessages(messagesYAML)
}

// ParseMessages parses a catalog and fails if any text is missing.
func ParseMessages(data []byte) (*Messages, error) {
	var m Messages
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	v := reflect.ValueOf(m)
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).String() == "" {
			return nil, fmt.Errorf("message %q is empty", v.Type().Field(i).Tag.Get("yaml"))
		}
	}

	return &m, nil
}
