package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/arbigrants/internal/address"
	"github.com/blues/arbigrants/internal/llama"
	"github.com/blues/arbigrants/internal/logger"
	"github.com/blues/arbigrants/internal/model"
	"github.com/blues/arbigrants/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 入库时 description 截断长度，与仓库历史数据保持一致
const storedDescriptionLen = 249

var (
	ErrNothingPending = errors.New("no pending submission")
	ErrStageLogo      = errors.New("failed to upload logo")
	ErrPromoteLogo    = errors.New("failed to publish logo")
	ErrWarehouse      = errors.New("failed to write project to warehouse")
)

// ProtocolResolver 查询 DefiLlama 协议名称，失败时返回空字符串
type ProtocolResolver interface {
	ProtocolName(ctx context.Context, slug string) string
}

// PendingSubmission 请求级的待提交记录，Take 只会返回一次
type PendingSubmission interface {
	Take() (*model.ProjectSubmission, bool)
}

// CommitResult 提交结果
type CommitResult struct {
	ContractsInserted int
	MetadataCreated   bool
	LogoURL           string
	LlamaSlug         string
	LlamaName         string
}

// SubmissionLogic 项目提交业务逻辑
type SubmissionLogic struct {
	db       *gorm.DB
	store    storage.ObjectStore
	resolver ProtocolResolver
}

// NewSubmissionLogic 创建项目提交业务逻辑
func NewSubmissionLogic(db *gorm.DB, store storage.ObjectStore, resolver ProtocolResolver) *SubmissionLogic {
	return &SubmissionLogic{
		db:       db,
		store:    store,
		resolver: resolver,
	}
}

// CommitPending 取出待提交记录并写入，无论成功与否记录都已被清空
func (s *SubmissionLogic) CommitPending(ctx context.Context, pending PendingSubmission) (*CommitResult, error) {
	sub, ok := pending.Take()
	if !ok {
		return nil, ErrNothingPending
	}
	return s.Commit(ctx, sub)
}

// Commit 写入一次项目提交。
//
// logo 先上传到 staging/ 下的临时 key；合约地址与元数据在同一事务内写入，
// 元数据为新插入时才把 logo 提升到最终 key。事务失败时删除临时对象
// (以及已提升的最终对象)。同名项目已存在时元数据保持不变，临时 logo 丢弃。
func (s *SubmissionLogic) Commit(ctx context.Context, sub *model.ProjectSubmission) (*CommitResult, error) {
	if sub == nil {
		return nil, ErrNothingPending
	}

	contracts := address.Normalize(sub.Contracts)

	contentType := sub.Logo.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeFor(sub.Logo.Filename)
	}
	stagedKey := storage.StagingKey(sub.Logo.Filename)
	if err := s.store.Put(ctx, stagedKey, sub.Logo.Data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStageLogo, err)
	}

	slug := llama.SlugFromURL(sub.DefiLlama)
	result := &CommitResult{
		LlamaSlug: slug,
		LlamaName: s.resolver.ProtocolName(ctx, slug),
	}

	finalKey := storage.LogoKey(sub.Name, sub.Logo.Filename)
	promoted := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, addr := range contracts {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}, {Name: "contract_address"}},
				DoNothing: true,
			}).Create(&model.ContractAddressModel{
				Name:            sub.Name,
				ContractAddress: addr,
			})
			if res.Error != nil {
				return fmt.Errorf("upsert contract %s: %w", addr, res.Error)
			}
			result.ContractsInserted += int(res.RowsAffected)
		}

		metadata := &model.ProjectMetadataModel{
			Name:        sub.Name,
			Category:    string(sub.Category),
			LlamaSlug:   slug,
			LlamaName:   result.LlamaName,
			Chain:       string(sub.Chain),
			Description: truncateRunes(sub.Description, storedDescriptionLen),
			Logo:        s.store.PublicURL(finalKey),
			Website:     sub.Website,
			Twitter:     sub.Twitter,
			Github:      sub.Github,
			Dune:        sub.Dune,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(metadata)
		if res.Error != nil {
			return fmt.Errorf("insert metadata: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		result.MetadataCreated = true
		result.LogoURL = metadata.Logo

		if err := storage.Promote(ctx, s.store, stagedKey, finalKey); err != nil {
			return fmt.Errorf("%w: %w", ErrPromoteLogo, err)
		}
		promoted = true
		return nil
	})
	if err != nil {
		s.discard(ctx, stagedKey)
		if promoted {
			s.discard(ctx, finalKey)
		}
		if !errors.Is(err, ErrPromoteLogo) {
			err = fmt.Errorf("%w: %w", ErrWarehouse, err)
		}
		logger.Error("Failed to record project %q: %v", sub.Name, err)
		return nil, err
	}

	if !result.MetadataCreated {
		s.discard(ctx, stagedKey)
		result.LogoURL = s.existingLogo(ctx, sub.Name)
		logger.Info("Project %q already recorded, merged %d new contract(s)", sub.Name, result.ContractsInserted)
		return result, nil
	}

	logger.Info("Recorded project %q with %d new contract(s)", sub.Name, result.ContractsInserted)
	return result, nil
}

func (s *SubmissionLogic) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete object %s: %v", key, err)
	}
}

func (s *SubmissionLogic) existingLogo(ctx context.Context, name string) string {
	var existing model.ProjectMetadataModel
	if err := s.db.WithContext(ctx).Select("logo").Where("name = ?", name).Take(&existing).Error; err != nil {
		logger.Warn("Failed to load existing metadata for %q: %v", name, err)
		return ""
	}
	return existing.Logo
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
