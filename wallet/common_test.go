// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/mock"
	"github.com/walletkit/descwallet/chain"
)

var (
	errApplyMock = errors.New("apply fail")

	// testUpdate is a representative backend state update.
	testUpdate = &chain.Update{
		Tip: chain.BlockMeta{
			Hash:      chainhash.Hash{0x01, 0x02},
			Height:    812345,
			Timestamp: time.Unix(1700000000, 0),
		},
		TxCount: 7,
		Balance: btcutil.Amount(50_000),
	}
)

// mockChainClient is a mock implementation of the chain.Client interface.
type mockChainClient struct {
	mock.Mock
}

var _ chain.Client = (*mockChainClient)(nil)

func (m *mockChainClient) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockChainClient) Stop() {
	m.Called()
}

func (m *mockChainClient) IsRunning() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockChainClient) BestBlockHeight() (int32, error) {
	args := m.Called()

	//nolint:gosec // test heights are small.
	return int32(args.Int(0)), args.Error(1)
}

func (m *mockChainClient) BackendName() string {
	args := m.Called()
	return args.String(0)
}

// mockUpdateStore is a mock implementation of the UpdateStore interface.
type mockUpdateStore struct {
	mock.Mock
}

var _ UpdateStore = (*mockUpdateStore)(nil)

func (m *mockUpdateStore) ApplyUpdate(update *chain.Update) error {
	args := m.Called(update)
	return args.Error(0)
}

func (m *mockUpdateStore) SyncedTo() chain.BlockMeta {
	args := m.Called()
	return args.Get(0).(chain.BlockMeta)
}

func (m *mockUpdateStore) TxCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *mockUpdateStore) Balance() btcutil.Amount {
	args := m.Called()
	return args.Get(0).(btcutil.Amount)
}

// recordingSink records forwarded events per stream, preserving the order
// within each stream.
type recordingSink struct {
	mu       sync.Mutex
	logs     []string
	infos    []string
	warnings []string
}

func (r *recordingSink) Log(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, msg)
}

func (r *recordingSink) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.infos = append(r.infos, msg)
}

func (r *recordingSink) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.warnings = append(r.warnings, msg)
}

// snapshot returns copies of the recorded streams.
func (r *recordingSink) snapshot() (logs, infos, warnings []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.logs...),
		append([]string(nil), r.infos...),
		append([]string(nil), r.warnings...)
}

// newRunningClient returns a mock client that reports as started.
func newRunningClient() *mockChainClient {
	client := &mockChainClient{}
	client.On("IsRunning").Return(true).Maybe()
	client.On("BackendName").Return("compact-filters").Maybe()

	return client
}
