package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voteagora/agora-tally/internal/domain"
	domainconfig "github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

const voteBatchSize = 500

var memoryDBSeq atomic.Uint64

// Store is the SQLite-backed proposal, vote and supply repository
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore opens the store under the configured data directory
func NewStore(cfg *domainconfig.RuntimeConfig, logger *slog.Logger) (*Store, func(), error) {
	s, err := New(cfg.DataDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}

// New creates a SQLite store. Uses an in-memory database if dataDir is empty.
func New(dataDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dsn := fmt.Sprintf("file:agora-%d?mode=memory&cache=shared", memoryDBSeq.Add(1))
	if dataDir != "" {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
			filepath.Join(dataDir, "agora.sqlite"))
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, logger: logger.With("component", "database")}
	for _, model := range migrateModels {
		s.logger.Debug(fmt.Sprintf("creating table: %T", model))
		if err := db.AutoMigrate(model); err != nil {
			return nil, fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return s, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetProposal returns one proposal of a tenant
func (s *Store) GetProposal(ctx context.Context, tenant, id string) (*models.Proposal, error) {
	var row proposalRow
	err := s.db.WithContext(ctx).
		Where("tenant = ? AND proposal_id = ?", tenant, id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Kind: "proposal", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load proposal %s: %w", id, err)
	}
	return row.toModel(), nil
}

// ListProposals returns the proposals matching filter, newest first
func (s *Store) ListProposals(ctx context.Context, filter domain.ProposalFilter) ([]*models.Proposal, error) {
	q := s.db.WithContext(ctx).Where("tenant = ?", filter.Tenant)
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if filter.Proposer != "" {
		q = q.Where("proposer = ?", filter.Proposer)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []proposalRow
	if err := q.Order("created_block DESC").Order("proposal_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	out := make([]*models.Proposal, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

// ListVotes returns every vote cast on a proposal in insertion order
func (s *Store) ListVotes(ctx context.Context, tenant, proposalID string) ([]*models.Vote, error) {
	var rows []voteRow
	err := s.db.WithContext(ctx).
		Where("tenant = ? AND proposal_id = ?", tenant, proposalID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for %s: %w", proposalID, err)
	}
	out := make([]*models.Vote, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

// SaveBundle stores a bundle atomically. Proposals are upserted and the vote
// set of every proposal in the bundle is replaced.
func (s *Store) SaveBundle(ctx context.Context, bundle *models.Bundle) error {
	if bundle.Tenant == "" {
		return domain.NewInputError("tenant", "bundle has no tenant")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range bundle.Proposals {
			row := toProposalRow(bundle.Tenant, p)
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
				return fmt.Errorf("failed to save proposal %s: %w", p.ID, err)
			}
			if err := tx.Where("tenant = ? AND proposal_id = ?", bundle.Tenant, p.ID).
				Delete(&voteRow{}).Error; err != nil {
				return fmt.Errorf("failed to clear votes of %s: %w", p.ID, err)
			}
		}

		if len(bundle.Votes) > 0 {
			rows := make([]*voteRow, len(bundle.Votes))
			for i, v := range bundle.Votes {
				rows[i] = toVoteRow(bundle.Tenant, v)
			}
			if err := tx.CreateInBatches(rows, voteBatchSize).Error; err != nil {
				return fmt.Errorf("failed to save votes: %w", err)
			}
		}

		if bundle.VotableSupply != "" {
			row := &supplyRow{Tenant: bundle.Tenant, Block: bundle.SupplyBlock, Supply: bundle.VotableSupply}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to save votable supply: %w", err)
			}
		}
		return nil
	})
}

// CurrentVotableSupply returns the most recent supply snapshot, falling back
// to the tenant's static value.
func (s *Store) CurrentVotableSupply(ctx context.Context, tenant *domainconfig.TenantConfig) (string, error) {
	var row supplyRow
	err := s.db.WithContext(ctx).
		Where("tenant = ?", tenant.Namespace).
		Order("block DESC").Order("id DESC").
		Take(&row).Error
	switch {
	case err == nil:
		return row.Supply, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("failed to load votable supply: %w", err)
	}

	if tenant.VotableSupply != "" {
		return tenant.VotableSupply, nil
	}
	return "", &domain.NotFoundError{Kind: "votable supply", ID: tenant.Namespace}
}
