package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/blues/arbigrants/internal/form"
	"github.com/blues/arbigrants/internal/logger"
	"github.com/blues/arbigrants/internal/logic"
	"github.com/blues/arbigrants/internal/model"
	"github.com/blues/arbigrants/internal/storage"
	"github.com/gin-gonic/gin"
)

const (
	msgRecorded        = "We have recorded your project, thank you!"
	msgAlreadyRecorded = "A project with this name is already recorded; new contract addresses were added."
	msgCommitFailed    = "An error occurred while trying to record your project"
)

type SubmissionHandler struct {
	submissionLogic *logic.SubmissionLogic
	maxLogoBytes    int64
	debug           bool
}

// NewSubmissionHandler debug 为 true 时在 500 响应中附带完整错误链
func NewSubmissionHandler(submissionLogic *logic.SubmissionLogic, maxLogoBytes int64, debug bool) *SubmissionHandler {
	return &SubmissionHandler{
		submissionLogic: submissionLogic,
		maxLogoBytes:    maxLogoBytes,
		debug:           debug,
	}
}

// GetOptions 表单下拉框选项
func (h *SubmissionHandler) GetOptions(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "ok", OptionsResponse{
		Chains:               model.Chains,
		Categories:           model.Categories,
		Selectors:            []string{form.Yes, form.No},
		MaxDescriptionLength: form.MaxDescriptionLen,
		LogoTypes:            form.LogoExtensions,
	})
}

// CreateSubmission 校验表单并写入仓库
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	logo, err := h.readLogo(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 每个请求独立的表单状态
	session := form.NewSession()
	if err := session.Submit(form.Input{
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		Chain:        c.PostForm("chain"),
		Website:      c.PostForm("website"),
		Twitter:      c.PostForm("twitter"),
		Category:     c.PostForm("category"),
		HasGithub:    c.PostForm("has_github"),
		Github:       c.PostForm("github"),
		HasDefiLlama: c.PostForm("has_defillama"),
		DefiLlama:    c.PostForm("defillama"),
		HasContracts: c.PostForm("has_contracts"),
		Contracts:    c.PostForm("contracts"),
		HasDune:      c.PostForm("has_dune"),
		Dune:         c.PostForm("dune"),
		Logo:         logo,
	}); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Message: verr.Message,
				Data:    gin.H{"field": verr.Field},
			})
			return
		}
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.submissionLogic.CommitPending(c.Request.Context(), session)
	if err != nil {
		logger.Error("Submission commit failed: %v", err)
		var data interface{}
		if h.debug {
			data = gin.H{"detail": errorChain(err)}
		}
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: fmt.Sprintf("%s: %v", msgCommitFailed, err),
			Data:    data,
		})
		return
	}

	if !result.MetadataCreated {
		SuccessResponse(c, http.StatusOK, msgAlreadyRecorded, ToSubmissionResponse(result))
		return
	}
	SuccessResponse(c, http.StatusCreated, msgRecorded, ToSubmissionResponse(result))
}

// readLogo 读取 logo 文件，未上传时返回 nil 交给表单校验
func (h *SubmissionHandler) readLogo(c *gin.Context) (*model.Logo, error) {
	fh, err := c.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid logo upload: %w", err)
	}
	if h.maxLogoBytes > 0 && fh.Size > h.maxLogoBytes {
		return nil, fmt.Errorf("logo is larger than %d bytes", h.maxLogoBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("invalid logo upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("invalid logo upload: %w", err)
	}

	return &model.Logo{
		Filename:    fh.Filename,
		ContentType: storage.ContentTypeFor(fh.Filename),
		Data:        data,
	}, nil
}

// errorChain 展开被包装的错误，便于定位
func errorChain(err error) []string {
	var chain []string
	queue := []error{err}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		chain = append(chain, e.Error())
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		case interface{ Unwrap() error }:
			if next := u.Unwrap(); next != nil {
				queue = append(queue, next)
			}
		}
	}
	return chain
}
