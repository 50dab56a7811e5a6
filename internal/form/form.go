// Package form validates project submission input and holds the validated
// record for exactly one commit.
package form

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/blues/arbigrants/internal/address"
	"github.com/blues/arbigrants/internal/model"
)

const MaxDescriptionLen = 250

const (
	Yes = "yes"
	No  = "no"
)

// LogoExtensions 允许上传的 logo 格式
var LogoExtensions = []string{"png", "jpg", "jpeg"}

var ErrAlreadySubmitted = errors.New("submission already accepted")

// ValidationError 需要提示给用户的校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Input 表单原始输入。Has* 为 yes/no 选择框，只有选 yes 时对应字段才会被采用。
type Input struct {
	Name        string
	Description string
	Chain       string
	Website     string
	Twitter     string
	Category    string

	HasGithub    string
	Github       string
	HasDefiLlama string
	DefiLlama    string
	HasContracts string
	Contracts    string
	HasDune      string
	Dune         string

	Logo *model.Logo
}

// MissingFields 返回尚未填写的必填字段
func MissingFields(in Input) []string {
	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"description", in.Description},
		{"chain", in.Chain},
		{"website", in.Website},
		{"twitter", in.Twitter},
		{"category", in.Category},
		{"has_github", in.HasGithub},
		{"has_defillama", in.HasDefiLlama},
		{"has_contracts", in.HasContracts},
		{"has_dune", in.HasDune},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if in.Logo == nil || len(in.Logo.Data) == 0 {
		missing = append(missing, "logo")
	}
	return missing
}

// Ready 提交按钮是否可用
func Ready(in Input) bool {
	return len(MissingFields(in)) == 0
}

// Validate 校验输入并生成提交记录
func Validate(in Input) (*model.ProjectSubmission, error) {
	if missing := MissingFields(in); len(missing) > 0 {
		return nil, &ValidationError{
			Field:   missing[0],
			Message: fmt.Sprintf("Please fill in all required fields: %s.", strings.Join(missing, ", ")),
		}
	}

	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return nil, &ValidationError{Field: "description", Message: "Description is too long. Please shorten it."}
	}

	chain := model.Chain(strings.TrimSpace(in.Chain))
	if !chain.Valid() {
		return nil, &ValidationError{Field: "chain", Message: fmt.Sprintf("Unknown chain %q.", in.Chain)}
	}
	category := model.Category(strings.TrimSpace(in.Category))
	if !category.Valid() {
		return nil, &ValidationError{Field: "category", Message: fmt.Sprintf("Unknown category %q.", in.Category)}
	}

	github, err := conditional("has_github", in.HasGithub, in.Github)
	if err != nil {
		return nil, err
	}
	defillama, err := conditional("has_defillama", in.HasDefiLlama, in.DefiLlama)
	if err != nil {
		return nil, err
	}
	contracts, err := conditional("has_contracts", in.HasContracts, in.Contracts)
	if err != nil {
		return nil, err
	}
	dune, err := conditional("has_dune", in.HasDune, in.Dune)
	if err != nil {
		return nil, err
	}

	if contracts != "" && !address.Validate(contracts) {
		return nil, &ValidationError{Field: "contracts", Message: "Invalid contract address. Please check your contract addresses."}
	}

	if !allowedLogo(in.Logo.Filename) {
		return nil, &ValidationError{
			Field:   "logo",
			Message: fmt.Sprintf("Logo must be one of: %s.", strings.ToUpper(strings.Join(LogoExtensions, "/"))),
		}
	}

	return &model.ProjectSubmission{
		Name:        strings.TrimSpace(in.Name),
		Description: description,
		Chain:       chain,
		Website:     strings.TrimSpace(in.Website),
		Twitter:     strings.TrimSpace(in.Twitter),
		Github:      github,
		Category:    category,
		DefiLlama:   defillama,
		Contracts:   contracts,
		Dune:        dune,
		Logo:        *in.Logo,
	}, nil
}

func conditional(field, selector, value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case Yes:
		return strings.TrimSpace(value), nil
	case No:
		return "", nil
	default:
		return "", &ValidationError{Field: field, Message: fmt.Sprintf("%s must be %q or %q.", field, Yes, No)}
	}
}

func allowedLogo(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	for _, allowed := range LogoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
