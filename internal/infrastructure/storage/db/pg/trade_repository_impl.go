package postgresdb

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
)

var errTradeNotFound = errors.New("trade not found")

// tradeRow is the relational projection of a trade. The item, ledger,
// message and deposit collections are stored as JSON columns, the scalar
// fields are first-class columns so they can be filtered on.
type tradeRow struct {
	ID                  string `gorm:"primaryKey"`
	InitiatorAddress    string `gorm:"index"`
	CounterpartyAddress string `gorm:"index"`
	Status              int
	FairnessScore       int
	EscrowAddress       string
	Items               []byte
	History             []byte
	Messages            []byte
	Deposits            []byte
	CreatedAt           int64 `gorm:"autoCreateTime:false"`
	UpdatedAt           int64 `gorm:"autoUpdateTime:false"`
	AgreedAt            int64
	FinalizedAt         int64
	CanceledAt          int64
}

func (tradeRow) TableName() string {
	return "trades"
}

type tradeRepositoryImpl struct {
	db *gorm.DB
}

// NewTradeRepositoryImpl returns a postgres TradeRepository implementation.
func NewTradeRepositoryImpl(db *gorm.DB) domain.TradeRepository {
	return tradeRepositoryImpl{db}
}

func (t tradeRepositoryImpl) AddTrade(
	ctx context.Context, trade *domain.Trade,
) error {
	row, err := rowFromTrade(trade)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (t tradeRepositoryImpl) GetTrade(
	ctx context.Context, tradeID string,
) (*domain.Trade, error) {
	var row tradeRow
	if err := t.db.WithContext(ctx).
		First(&row, "id = ?", tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tradeFromRow(&row)
}

func (t tradeRepositoryImpl) GetAllTrades(
	ctx context.Context,
) ([]*domain.Trade, error) {
	var rows []tradeRow
	if err := t.db.WithContext(ctx).
		Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tradesFromRows(rows)
}

func (t tradeRepositoryImpl) GetTradesByParty(
	ctx context.Context, address string,
) ([]*domain.Trade, error) {
	var rows []tradeRow
	if err := t.db.WithContext(ctx).
		Where("initiator_address = ?", address).
		Or("counterparty_address = ?", address).
		Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tradesFromRows(rows)
}

// UpdateTrade locks the row for the duration of the transaction so that the
// status change and the history append always land together.
func (t tradeRepositoryImpl) UpdateTrade(
	ctx context.Context,
	tradeID string,
	updateFn func(trade *domain.Trade) (*domain.Trade, error),
) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row tradeRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "id = ?", tradeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTradeNotFound
			}
			return err
		}

		trade, err := tradeFromRow(&row)
		if err != nil {
			return err
		}

		updatedTrade, err := updateFn(trade)
		if err != nil {
			return err
		}

		updatedRow, err := rowFromTrade(updatedTrade)
		if err != nil {
			return err
		}
		return tx.Save(updatedRow).Error
	})
}

func rowFromTrade(trade *domain.Trade) (*tradeRow, error) {
	items, err := json.Marshal(trade.Items)
	if err != nil {
		return nil, err
	}
	history, err := json.Marshal(trade.History)
	if err != nil {
		return nil, err
	}
	messages, err := json.Marshal(trade.Messages)
	if err != nil {
		return nil, err
	}
	deposits, err := json.Marshal(trade.Deposits)
	if err != nil {
		return nil, err
	}

	return &tradeRow{
		ID:                  trade.Id,
		InitiatorAddress:    trade.InitiatorAddress,
		CounterpartyAddress: trade.CounterpartyAddress,
		Status:              int(trade.Status),
		FairnessScore:       trade.FairnessScore,
		EscrowAddress:       trade.EscrowAddress,
		Items:               items,
		History:             history,
		Messages:            messages,
		Deposits:            deposits,
		CreatedAt:           trade.CreatedAt,
		UpdatedAt:           trade.UpdatedAt,
		AgreedAt:            trade.AgreedAt,
		FinalizedAt:         trade.FinalizedAt,
		CanceledAt:          trade.CanceledAt,
	}, nil
}

func tradeFromRow(row *tradeRow) (*domain.Trade, error) {
	trade := &domain.Trade{
		Id:                  row.ID,
		InitiatorAddress:    row.InitiatorAddress,
		CounterpartyAddress: row.CounterpartyAddress,
		Status:              domain.TradeStatus(row.Status),
		FairnessScore:       row.FairnessScore,
		EscrowAddress:       row.EscrowAddress,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
		AgreedAt:            row.AgreedAt,
		FinalizedAt:         row.FinalizedAt,
		CanceledAt:          row.CanceledAt,
	}

	if err := json.Unmarshal(row.Items, &trade.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.History, &trade.History); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.Messages, &trade.Messages); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.Deposits, &trade.Deposits); err != nil {
		return nil, err
	}
	return trade, nil
}

func tradesFromRows(rows []tradeRow) ([]*domain.Trade, error) {
	trades := make([]*domain.Trade, 0, len(rows))
	for i := range rows {
		trade, err := tradeFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}
