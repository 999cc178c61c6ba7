package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/event"
)

// In-memory repositories; the func fields override the default behaviour

type mockTransactionRepo struct {
	txs   map[string]*entity.Transaction
	order []string

	createFunc       func(ctx context.Context, tx *entity.Transaction) error
	updateStatusFunc func(ctx context.Context, dotsNumber, status string) error
	listFunc         func(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)
}

func newMockTransactionRepo(txs ...*entity.Transaction) *mockTransactionRepo {
	m := &mockTransactionRepo{txs: make(map[string]*entity.Transaction)}
	for _, tx := range txs {
		_ = m.Create(context.Background(), tx)
	}
	return m
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, tx)
	}
	cp := *tx
	m.txs[tx.DotsNumber] = &cp
	m.order = append(m.order, tx.DotsNumber)
	return nil
}

func (m *mockTransactionRepo) GetByDotsNumber(ctx context.Context, dotsNumber string) (*entity.Transaction, error) {
	tx, ok := m.txs[dotsNumber]
	if !ok {
		return nil, port.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *mockTransactionRepo) UpdateStatus(ctx context.Context, dotsNumber, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, dotsNumber, status)
	}
	tx, ok := m.txs[dotsNumber]
	if !ok {
		return port.ErrNotFound
	}
	tx.Status = status
	return nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}

	statuses := make(map[string]bool)
	for _, s := range filter.Statuses {
		statuses[s] = true
	}

	var out []*entity.Transaction
	for _, dots := range m.order {
		tx := m.txs[dots]
		if len(statuses) > 0 && !statuses[tx.Status] {
			continue
		}
		if filter.CreatedBy != "" && !strings.EqualFold(filter.CreatedBy, tx.CreatedBy) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	return out, nil
}

type mockHistoryRepo struct {
	items      []entity.StatusHistoryItem
	appendFunc func(ctx context.Context, item *entity.StatusHistoryItem) error
}

func (m *mockHistoryRepo) Append(ctx context.Context, item *entity.StatusHistoryItem) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, item)
	}
	item.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *item)
	return nil
}

func (m *mockHistoryRepo) ListByDotsNumber(ctx context.Context, dotsNumber string) ([]entity.StatusHistoryItem, error) {
	items := []entity.StatusHistoryItem{}
	for _, item := range m.items {
		if item.DotsNumber == dotsNumber {
			items = append(items, item)
		}
	}
	return items, nil
}

type mockMaterialRepo struct {
	materials []*entity.Material
	upserted  *entity.Material
	deleted   string
}

func (m *mockMaterialRepo) Upsert(ctx context.Context, material *entity.Material) error {
	m.upserted = material
	return nil
}

func (m *mockMaterialRepo) GetByNumber(ctx context.Context, materialNumber string) (*entity.Material, error) {
	for _, material := range m.materials {
		if material.MaterialNumber == materialNumber {
			return material, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockMaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	return m.materials, nil
}

func (m *mockMaterialRepo) Delete(ctx context.Context, materialNumber string) error {
	m.deleted = materialNumber
	return nil
}

type mockGLAccountRepo struct {
	accounts []*entity.GLAccount
	upserted *entity.GLAccount
	deleted  string
}

func (m *mockGLAccountRepo) Upsert(ctx context.Context, account *entity.GLAccount) error {
	m.upserted = account
	return nil
}

func (m *mockGLAccountRepo) List(ctx context.Context) ([]*entity.GLAccount, error) {
	return m.accounts, nil
}

func (m *mockGLAccountRepo) Delete(ctx context.Context, account string) error {
	m.deleted = account
	return nil
}

type mockAttachmentRepo struct {
	attachments map[string]*entity.Attachment
	createFunc  func(ctx context.Context, att *entity.Attachment) error
}

func newMockAttachmentRepo() *mockAttachmentRepo {
	return &mockAttachmentRepo{attachments: make(map[string]*entity.Attachment)}
}

func (m *mockAttachmentRepo) Create(ctx context.Context, att *entity.Attachment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, att)
	}
	m.attachments[att.ID] = att
	return nil
}

func (m *mockAttachmentRepo) GetByID(ctx context.Context, id string) (*entity.Attachment, error) {
	att, ok := m.attachments[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return att, nil
}

func (m *mockAttachmentRepo) ListByDotsNumber(ctx context.Context, dotsNumber string) ([]*entity.Attachment, error) {
	out := []*entity.Attachment{}
	for _, att := range m.attachments {
		if att.DotsNumber == dotsNumber {
			out = append(out, att)
		}
	}
	return out, nil
}

func (m *mockAttachmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.attachments[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.attachments, id)
	return nil
}

type mockFileStorage struct {
	files map[string][]byte
}

func newMockFileStorage() *mockFileStorage {
	return &mockFileStorage{files: make(map[string][]byte)}
}

func (m *mockFileStorage) Save(ctx context.Context, path string, content []byte) error {
	m.files[path] = content
	return nil
}

func (m *mockFileStorage) Read(ctx context.Context, path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, port.ErrNotFound
	}
	return content, nil
}

func (m *mockFileStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *mockFileStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *mockFileStorage) GetFullPath(relativePath string) string {
	return "/attachments/" + relativePath
}

type mockReportWriter struct {
	rows []port.QueueRow
	err  error
}

func (m *mockReportWriter) WriteQueue(ctx context.Context, w io.Writer, rows []port.QueueRow) error {
	m.rows = rows
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "xlsx")
	return err
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockPublisher struct {
	events []*event.Event
}

func (m *mockPublisher) Publish(ctx context.Context, evt *event.Event) {
	m.events = append(m.events, evt)
}

func (m *mockPublisher) types() []event.Type {
	types := make([]event.Type, len(m.events))
	for i, evt := range m.events {
		types[i] = evt.Type
	}
	return types
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// Fixtures

var fixedNow = time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func dotsUser(email string, roles ...entity.Role) *entity.User {
	return &entity.User{
		Email:        email,
		Partner:      "BP-" + email,
		Applications: []entity.Application{{AppName: entity.ApplicationDOTS, Role: roles}},
	}
}

func role(userType string, costCenter *string) entity.Role {
	return entity.Role{BP: "BP001", CostCenter: costCenter, UserType: userType}
}

var (
	creator        = dotsUser("alice@example.com", role(entity.UserTypeViewer, nil))
	departmentHead = dotsUser("dh@example.com", role(entity.UserTypeDepartmentHead, strPtr("CC100")))
	groupHead      = dotsUser("gh@example.com", role(entity.UserTypeGroupHead, strPtr("CC200")))
	accounting     = dotsUser("acc@example.com", role(entity.UserTypeAccountingVerifier, nil))
	admin          = dotsUser("admin@example.com", role(entity.UserTypeAdmin, nil))
	outsider       = &entity.User{Email: "mallory@example.com"}
)

func validForm() entity.FormData {
	return entity.FormData{
		TrxType:     "1",
		FormType:    entity.FormTypeCashInAdvance,
		CompanyCode: "C001",
		CostCenter:  "CC100",
		BP:          "BP001",
		Currency:    "IDR",
		Amount:      "1,500,000",
		Description: "Team offsite",
		DueDate:     "2024-03-10",
	}
}
