package handler

import (
	"github.com/blues/arbigrants/internal/logic"
	"github.com/blues/arbigrants/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// OptionsResponse 表单选项
type OptionsResponse struct {
	Chains               []model.Chain    `json:"chains"`
	Categories           []model.Category `json:"categories"`
	Selectors            []string         `json:"selectors"`
	MaxDescriptionLength int              `json:"maxDescriptionLength"`
	LogoTypes            []string         `json:"logoTypes"`
}

// SubmissionResponse 提交结果
type SubmissionResponse struct {
	ContractsInserted int    `json:"contractsInserted"`
	MetadataCreated   bool   `json:"metadataCreated"`
	LogoURL           string `json:"logoUrl"`
	LlamaSlug         string `json:"llamaSlug,omitempty"`
	LlamaName         string `json:"llamaName,omitempty"`
}

// ToSubmissionResponse 将 logic 层结果转换为响应模型
func ToSubmissionResponse(result *logic.CommitResult) SubmissionResponse {
	return SubmissionResponse{
		ContractsInserted: result.ContractsInserted,
		MetadataCreated:   result.MetadataCreated,
		LogoURL:           result.LogoURL,
		LlamaSlug:         result.LlamaSlug,
		LlamaName:         result.LlamaName,
	}
}
