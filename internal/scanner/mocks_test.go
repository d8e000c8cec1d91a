package scanner_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// --- mocks ---

type mockOracle struct {
	mu         sync.Mutex
	current    float64
	currentErr error
	history    map[string]float64 // "2006-01-02" → precio
	historyErr error
	calls      map[string]int
}

func newMockOracle(current float64) *mockOracle {
	return &mockOracle{current: current, history: map[string]float64{}, calls: map[string]int{}}
}

func (m *mockOracle) CurrentPrice(_ context.Context, _, _ string) (float64, error) {
	return m.current, m.currentErr
}

func (m *mockOracle) HistoricalPrice(_ context.Context, date time.Time, _ string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := date.UTC().Format("2006-01-02")
	m.calls[key]++
	if m.historyErr != nil {
		return 0, m.historyErr
	}
	price, ok := m.history[key]
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, domain.ErrPriceUnavailable)
	}
	return price, nil
}

func (m *mockOracle) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

type mockTransfers struct {
	mu        sync.Mutex
	recent    []domain.Transaction
	recentErr error
	byWallet  map[domain.Address][]domain.Transaction
	walletErr map[domain.Address]error
}

func newMockTransfers() *mockTransfers {
	return &mockTransfers{
		byWallet:  map[domain.Address][]domain.Transaction{},
		walletErr: map[domain.Address]error{},
	}
}

func (m *mockTransfers) RecentTransfers(_ context.Context, _ domain.Address, _ int) ([]domain.Transaction, error) {
	return m.recent, m.recentErr
}

func (m *mockTransfers) WalletTransfers(_ context.Context, wallet, _ domain.Address) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.walletErr[wallet]; err != nil {
		return nil, err
	}
	return m.byWallet[wallet], nil
}

type mockInspector struct {
	mu        sync.Mutex
	contracts map[domain.Address]string
	err       error
	calls     map[domain.Address]int
}

func newMockInspector() *mockInspector {
	return &mockInspector{contracts: map[domain.Address]string{}, calls: map[domain.Address]int{}}
}

func (m *mockInspector) ContractName(_ context.Context, addr domain.Address) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[addr]++
	if m.err != nil {
		return "", m.err
	}
	return m.contracts[addr], nil
}

type mockHistory struct {
	mu    sync.Mutex
	first map[domain.Address]time.Time
	errs  map[domain.Address]error
	calls map[domain.Address]int
}

func newMockHistory() *mockHistory {
	return &mockHistory{
		first: map[domain.Address]time.Time{},
		errs:  map[domain.Address]error{},
		calls: map[domain.Address]int{},
	}
}

func (m *mockHistory) FirstTransactionTime(_ context.Context, addr domain.Address) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[addr]++
	if err := m.errs[addr]; err != nil {
		return time.Time{}, false, err
	}
	ts, ok := m.first[addr]
	return ts, ok, nil
}

type mockNotifier struct {
	reports []domain.ScanReport
	err     error
}

func (m *mockNotifier) Notify(_ context.Context, report domain.ScanReport) error {
	m.reports = append(m.reports, report)
	return m.err
}

// --- helpers ---

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

const (
	walletA  = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	walletB  = domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	walletC  = domain.Address("0xcccccccccccccccccccccccccccccccccccccccc")
	pool     = domain.Address("0xdddddddddddddddddddddddddddddddddddddddd")
	exchange = domain.Address("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	contract = domain.Address("0xd38bb40815d2b0c2d2c866e0c72c5728ffc76dd9")
)

// tokens devuelve el valor raw de n tokens con 18 decimales.
func tokens(n int) string {
	return fmt.Sprintf("%d000000000000000000", n)
}

func transfer(from, to domain.Address, value string, age time.Duration) domain.Transaction {
	return domain.Transaction{
		Hash:         fmt.Sprintf("0x%s-%s-%d", from.Short(), to.Short(), int(age.Hours())),
		From:         from,
		To:           to,
		Value:        value,
		TokenDecimal: 18,
		Timestamp:    testNow.Add(-age),
	}
}

func daysAgo(d int) time.Duration {
	return time.Duration(d) * 24 * time.Hour
}

func dateKey(age time.Duration) string {
	return testNow.Add(-age).Format("2006-01-02")
}
