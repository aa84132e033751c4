package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scantrader/src/executor"

	_ "github.com/lib/pq" // postgres driver
	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"
)

// Store 成交流水存储
// trades 表只追加不修改，用于事后统计
type Store struct {
	db *sql.DB
}

// NewStore 用已有连接创建存储，主要给测试用
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open 按配置连接数据库并建表
func Open(ctx context.Context) (*Store, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Database")

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ConfigValue.Host, ConfigValue.Port, ConfigValue.User,
		ConfigValue.Password, ConfigValue.DBName, ConfigValue.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info(fmt.Sprintf("数据库已连接: %s/%s", ConfigValue.Host, ConfigValue.DBName))
	return store, nil
}

// InitSchema 创建成交流水表
func (s *Store) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS trades (
		id           BIGSERIAL PRIMARY KEY,
		trading_pair VARCHAR(32)    NOT NULL,
		side         VARCHAR(8)     NOT NULL,
		order_type   VARCHAR(8)     NOT NULL,
		quantity     DECIMAL(30,10) NOT NULL,
		price        DECIMAL(30,10) NOT NULL,
		notional     DECIMAL(30,10) NOT NULL,
		pnl          DECIMAL(30,10) NOT NULL,
		pnl_pct      DECIMAL(12,8)  NOT NULL,
		reason       TEXT           NOT NULL DEFAULT '',
		trade_time   TIMESTAMPTZ    NOT NULL
	)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveTrade 追加一条成交记录
func (s *Store) SaveTrade(ctx context.Context, record *executor.TradeRecord) error {
	query := `
	INSERT INTO trades (trading_pair, side, order_type, quantity, price, notional, pnl, pnl_pct, reason, trade_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		record.TradingPair, record.Side, record.Type,
		record.Quantity.String(), record.Price.String(), record.Notional.String(),
		record.PnL.String(), record.PnLPct.String(),
		record.Reason, record.TradeTime)
	if err != nil {
		return fmt.Errorf("save trade: %w", err)
	}
	return nil
}

// Summary 成交统计
type Summary struct {
	Trades    int             `json:"trades"`
	BuyCount  int             `json:"buy_count"`
	SellCount int             `json:"sell_count"`
	TotalPnL  decimal.Decimal `json:"total_pnl"`
}

// Summarize 统计指定时间之后的成交
func (s *Store) Summarize(ctx context.Context, since time.Time) (*Summary, error) {
	query := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE side = 'BUY'),
		COUNT(*) FILTER (WHERE side = 'SELL'),
		COALESCE(SUM(pnl), 0)
	FROM trades
	WHERE trade_time >= $1`

	var summary Summary
	var totalPnL string
	err := s.db.QueryRowContext(ctx, query, since).Scan(
		&summary.Trades, &summary.BuyCount, &summary.SellCount, &totalPnL)
	if err != nil {
		return nil, fmt.Errorf("summarize trades: %w", err)
	}

	summary.TotalPnL, err = decimal.NewFromString(totalPnL)
	if err != nil {
		return nil, fmt.Errorf("parse total pnl: %w", err)
	}
	return &summary, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}
