package models

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type JournalEntry struct {
	ID          int             `gorm:"primary_key" json:"id"`
	EntryNumber string          `gorm:"size:16;uniqueIndex;not null" json:"entry_number"`
	EntryWeek   int             `gorm:"index;not null" json:"entry_week"`
	Description string          `gorm:"size:255" json:"description"`
	Posted      bool            `gorm:"not null;default:true" json:"posted"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Lines       []JournalLine   `gorm:"foreignKey:JournalEntryId" json:"lines"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type JournalLine struct {
	ID             int             `gorm:"primary_key" json:"id"`
	JournalEntryId int             `gorm:"index;not null" json:"journal_entry_id"`
	AccountId      int             `gorm:"index;not null" json:"account_id"`
	Debit          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
	ReferenceType  *string         `gorm:"size:32;index:idx_journal_lines_reference" json:"reference_type"`
	ReferenceId    *int            `gorm:"index:idx_journal_lines_reference" json:"reference_id"`
	InvoiceId      *int            `json:"invoice_id"`
	Memo           string          `gorm:"size:255" json:"memo"`
}

type NewJournal struct {
	Description string                  `json:"description" binding:"required"`
	Lines       []NewJournalTransaction `json:"lines" binding:"required"`
}

type NewJournalTransaction struct {
	AccountId int             `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

var entryNumberPattern = regexp.MustCompile(`JE-(\d+)`)

// nextEntryNumber parses the numeric suffix of the latest entry and
// increments it. Runs inside the posting transaction; the single-writer
// model means no two postings race for a number.
func nextEntryNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	var latest JournalEntry
	err := tx.WithContext(ctx).Order("id DESC").First(&latest).Error
	if err != nil {
		return utils.FormatEntryNumber(1), nil
	}

	match := entryNumberPattern.FindStringSubmatch(latest.EntryNumber)
	if match == nil {
		return utils.FormatEntryNumber(1), nil
	}
	seq, err := strconv.Atoi(match[1])
	if err != nil {
		return utils.FormatEntryNumber(1), nil
	}
	return utils.FormatEntryNumber(seq + 1), nil
}

// validate input for create. Entries must balance to the cent and every
// line must move exactly one side.
func (input *NewJournal) validate(ctx context.Context) error {
	if len(input.Lines) == 0 {
		return errors.New("a journal entry requires at least one line")
	}

	accountIds := make([]int, 0, len(input.Lines))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range input.Lines {
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return errors.New("either debit or credit must have value")
		}
		if !line.Debit.IsZero() && !line.Credit.IsZero() {
			return errors.New("a line cannot carry both debit and credit")
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return errors.New("debit and credit must not be negative")
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
		accountIds = append(accountIds, line.AccountId)
	}
	if !totalDebit.Equal(totalCredit) {
		return errors.New("journal entry does not balance")
	}
	if err := utils.ValidateResourcesId[Account](ctx, accountIds); err != nil {
		return errors.New("account not found")
	}
	return nil
}

// CreateJournal posts a manual journal entry (arena costs, adjustments).
func CreateJournal(ctx context.Context, input *NewJournal) (*JournalEntry, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	totalAmount := decimal.Zero
	lines := make([]JournalLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		totalAmount = totalAmount.Add(line.Debit)
		lines = append(lines, JournalLine{
			AccountId: line.AccountId,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
		})
	}

	entry := JournalEntry{
		EntryWeek:   week,
		Description: input.Description,
		Posted:      true,
		TotalAmount: totalAmount,
		Lines:       lines,
	}

	db := config.GetDB()
	// db action
	tx := db.Begin()
	entryNumber, err := nextEntryNumber(ctx, tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	entry.EntryNumber = entryNumber
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func GetJournal(ctx context.Context, id int) (*JournalEntry, error) {
	return utils.FetchModel[JournalEntry](ctx, id, "Lines")
}

func GetJournals(ctx context.Context) ([]*JournalEntry, error) {
	db := config.GetDB()
	var entries []*JournalEntry
	if err := db.WithContext(ctx).Preload("Lines").
		Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
