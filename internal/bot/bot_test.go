package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap/zaptest"

	"sauna-offer-bot/internal/catalog"
	"sauna-offer-bot/internal/geo"
	"sauna-offer-bot/internal/quotation"
	"sauna-offer-bot/internal/storage"
	"sauna-offer-bot/pkg/nominatim"
	"sauna-offer-bot/pkg/redis"
)

const (
	customerID = int64(42)
	adminID    = int64(7)
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	updates chan tgbotapi.Update
	stopped atomic.Bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.stopped.Store(true)
}

func (f *fakeAPI) messagesTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) lastMessageTo(chatID int64) string {
	msgs := f.messagesTo(chatID)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func (f *fakeAPI) documentsTo(chatID int64) []tgbotapi.DocumentConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.DocumentConfig
	for _, c := range f.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok && d.ChatID == chatID {
			out = append(out, d)
		}
	}
	return out
}

type fakeStateStore struct {
	data map[int64][]byte
}

func (s *fakeStateStore) SaveState(_ context.Context, chatID int64, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.data[chatID] = raw
	return nil
}

func (s *fakeStateStore) GetState(_ context.Context, chatID int64, state any) error {
	raw, ok := s.data[chatID]
	if !ok {
		return redis.ErrNotFound
	}
	return json.Unmarshal(raw, state)
}

func (s *fakeStateStore) ClearState(_ context.Context, chatID int64) error {
	delete(s.data, chatID)
	return nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *fakeLimiter) CheckRateLimit(context.Context, int64, int, time.Duration) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

type fakeStorage struct {
	offers  []storage.Offer
	saveErr error
}

func (s *fakeStorage) SaveOffer(_ context.Context, offer *storage.Offer) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	offer.ID = int64(len(s.offers) + 1)
	s.offers = append(s.offers, *offer)
	return offer.ID, nil
}

func (s *fakeStorage) GetOfferByID(_ context.Context, id int64) (*storage.Offer, error) {
	for _, o := range s.offers {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("fake: %w", storage.ErrOfferNotFound)
}

func (s *fakeStorage) GetOfferStatistics(context.Context) (*storage.OfferStatistics, error) {
	stats := &storage.OfferStatistics{ModelCounts: map[string]int{}}
	for _, o := range s.offers {
		stats.TotalOffers++
		stats.TotalRevenue += o.TotalPrice
		stats.ModelCounts[o.Model]++
	}
	return stats, nil
}

func (s *fakeStorage) ExportAllOffersToExcel(_ context.Context, dir string) (string, error) {
	path := filepath.Join(dir, "oferty.xlsx")
	if err := os.WriteFile(path, []byte("xlsx"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeGeocoder struct {
	calls atomic.Int64
}

func (g *fakeGeocoder) Resolve(_ context.Context, address string) (geo.Coordinate, error) {
	g.calls.Add(1)
	if address == "Kraków" {
		return geo.Coordinate{Lat: 50.0619474, Lon: 19.9368564}, nil
	}
	return geo.Coordinate{}, &nominatim.GeocodeError{Kind: nominatim.NotFound, Address: address}
}

type testBot struct {
	*Bot
	api      *fakeAPI
	states   *fakeStateStore
	limiter  *fakeLimiter
	store    *fakeStorage
	geocoder *fakeGeocoder
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	logger := zaptest.NewLogger(t)
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 1)}
	states := &fakeStateStore{data: map[int64][]byte{}}
	limiter := &fakeLimiter{allowed: true}
	store := &fakeStorage{}
	geocoder := &fakeGeocoder{}

	origin := geo.Location{Coordinate: geo.Coordinate{Lat: 52.34916, Lon: 17.46995}, Label: "Zasutowo"}
	svc := quotation.NewService(geocoder, catalog.Default(), origin, logger)

	b := NewWithAPI(api, Deps{
		State:   states,
		Limiter: limiter,
		Storage: store,
		Quoter:  svc,
		Catalog: catalog.Default(),
	}, Options{
		AdminIDs:   []int64{adminID},
		RateLimit:  5,
		RateWindow: time.Minute,
		ReportsDir: t.TempDir(),
	}, logger)
	b.now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }

	return &testBot{Bot: b, api: api, states: states, limiter: limiter, store: store, geocoder: geocoder}
}

func message(from int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: from},
		From: &tgbotapi.User{ID: from, UserName: "jan_kowalski"},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		length := len(text)
		if i := strings.Index(text, " "); i > 0 {
			length = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return msg
}

func (tb *testBot) say(from int64, text string) {
	tb.processMessage(context.Background(), message(from, text))
}

func (tb *testBot) step(t *testing.T, chatID int64) UserState {
	t.Helper()
	var state UserState
	if err := tb.states.GetState(context.Background(), chatID, &state); err != nil {
		t.Fatalf("state of chat %d: %v", chatID, err)
	}
	return state
}

func (tb *testBot) walkTo(t *testing.T, step string) {
	t.Helper()
	script := []struct {
		text string
		next string
	}{
		{"/start", StepLine},
		{catalog.LineAnkel, StepModel},
		{"Ankel Mini 1,8m", StepFurnace},
		{catalog.FurnaceNarvi, StepPaint},
		{"1", StepLocation},
		{"Kraków", StepCustomDelivery},
		{"1000zł", StepConfirmation},
	}
	for _, s := range script {
		tb.say(customerID, s.text)
		if got := tb.step(t, customerID).Step; got != s.next {
			t.Fatalf("after %q: step = %q, want %q (last reply %q)", s.text, got, s.next, tb.api.lastMessageTo(customerID))
		}
		if s.next == step {
			return
		}
	}
}

func TestDialog_FullFlow(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepConfirmation)

	state := tb.step(t, customerID)
	if state.Delivery.State != quotation.Resolved || state.Delivery.DistanceKm != 306.91 {
		t.Fatalf("delivery = %+v", state.Delivery)
	}
	summary := tb.api.lastMessageTo(customerID)
	for _, part := range []string{"Ankel Mini 1,8m", "306.91 km", "1 535 zł", "Razem: 15 885 zł"} {
		if !strings.Contains(summary, part) {
			t.Errorf("summary %q does not contain %q", summary, part)
		}
	}

	tb.say(customerID, BtnConfirm)

	if len(tb.store.offers) != 1 {
		t.Fatalf("saved offers = %d, want 1", len(tb.store.offers))
	}
	offer := tb.store.offers[0]
	if offer.OfferNumber != "SAU/2026/10/19" || offer.UserID != customerID || offer.Username != "jan_kowalski" {
		t.Errorf("offer header = %+v", offer)
	}
	if diff := offer.TotalPrice - (10800 + 1800 + 750 + 1534.55 + 1000); diff > 1e-6 || diff < -1e-6 {
		t.Errorf("total = %v", offer.TotalPrice)
	}
	if offer.Resolution != "resolved" {
		t.Errorf("resolution = %q", offer.Resolution)
	}

	if _, ok := tb.states.data[customerID]; ok {
		t.Error("state was not cleared after confirmation")
	}
	if reply := tb.api.lastMessageTo(customerID); !strings.Contains(reply, "SAU/2026/10/19") {
		t.Errorf("confirmation reply = %q", reply)
	}

	if note := tb.api.lastMessageTo(adminID); !strings.Contains(note, "SAU/2026/10/19") || !strings.Contains(note, "@jan_kowalski") {
		t.Errorf("admin notification = %q", note)
	}
	docs := tb.api.documentsTo(adminID)
	if len(docs) != 1 {
		t.Fatalf("admin documents = %d, want 1", len(docs))
	}
	if name := filepath.Base(string(docs[0].File.(tgbotapi.FilePath))); name != "1_19.10.2026_oferta_sauny_Ankel_Mini_18m.xlsx" {
		t.Errorf("document = %q", name)
	}
	if n := tb.geocoder.calls.Load(); n != 1 {
		t.Errorf("geocoder calls = %d, want 1", n)
	}
}

func TestDialog_InvalidChoicesKeepStep(t *testing.T) {
	tb := newTestBot(t)

	tb.say(customerID, "/start")
	tb.say(customerID, "Beczka")
	if got := tb.step(t, customerID).Step; got != StepLine {
		t.Fatalf("step = %q, want line", got)
	}

	tb.say(customerID, catalog.LineToone)
	tb.say(customerID, "Ankel Mini 1,8m")
	if got := tb.step(t, customerID).Step; got != StepModel {
		t.Fatalf("model of the other line accepted, step = %q", got)
	}

	tb.say(customerID, "Toone Mini 1,8m")
	tb.say(customerID, "Piec gazowy")
	if got := tb.step(t, customerID).Step; got != StepFurnace {
		t.Fatalf("unknown furnace accepted, step = %q", got)
	}

	tb.say(customerID, BtnNoFurnace)
	tb.say(customerID, "dużo")
	if got := tb.step(t, customerID).Step; got != StepPaint {
		t.Fatalf("bad paint accepted, step = %q", got)
	}

	tb.say(customerID, "15000000000000000")
	if got := tb.step(t, customerID).Step; got != StepPaint {
		t.Fatalf("oversized paint multiplier accepted, step = %q", got)
	}

	tb.say(customerID, BtnNoPaint)
	state := tb.step(t, customerID)
	if state.Step != StepLocation || state.Request.Paint != "0" || state.Request.Furnace != "" {
		t.Fatalf("state = %+v", state)
	}
}

func TestDialog_Back(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepPaint)

	tb.say(customerID, BtnBack)
	if got := tb.step(t, customerID).Step; got != StepFurnace {
		t.Fatalf("step = %q, want furnace", got)
	}
	if reply := tb.api.lastMessageTo(customerID); reply != "Wybierz piec:" {
		t.Errorf("reply = %q", reply)
	}
}

func TestDialog_SkipLocation(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepLocation)

	tb.say(customerID, BtnSkip)

	state := tb.step(t, customerID)
	if state.Step != StepCustomDelivery || state.Delivery.State != quotation.NoAddress {
		t.Fatalf("state = %+v", state)
	}
	if tb.limiter.calls != 0 || tb.geocoder.calls.Load() != 0 {
		t.Errorf("limiter calls = %d, geocoder calls = %d, want none", tb.limiter.calls, tb.geocoder.calls.Load())
	}
}

func TestDialog_UnresolvedLocation(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepLocation)

	tb.say(customerID, "Nieistniejące Miasto XYZ123")

	state := tb.step(t, customerID)
	if state.Step != StepCustomDelivery || state.Delivery.State != quotation.Unresolved || state.Delivery.DeliveryCost != 0 {
		t.Fatalf("state = %+v", state)
	}
	msgs := tb.api.messagesTo(customerID)
	if preview := msgs[len(msgs)-2]; !strings.Contains(preview, "Nie udało się ustalić lokalizacji") {
		t.Errorf("preview = %q", preview)
	}
}

func TestDialog_RateLimited(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepLocation)
	tb.limiter.allowed = false

	tb.say(customerID, "Kraków")

	if got := tb.step(t, customerID).Step; got != StepLocation {
		t.Fatalf("step = %q, want location", got)
	}
	if n := tb.geocoder.calls.Load(); n != 0 {
		t.Errorf("geocoder called %d times while rate limited", n)
	}
	if reply := tb.api.lastMessageTo(customerID); !strings.Contains(reply, "Zbyt wiele zapytań") {
		t.Errorf("reply = %q", reply)
	}
}

func TestDialog_RateLimiterFailureLetsThrough(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepLocation)
	tb.limiter.err = errors.New("redis down")

	tb.say(customerID, "Kraków")

	if got := tb.step(t, customerID).Step; got != StepCustomDelivery {
		t.Fatalf("step = %q, want custom_delivery", got)
	}
}

func TestDialog_BadCustomDelivery(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepCustomDelivery)

	tb.say(customerID, "tysiąc złotych")
	if got := tb.step(t, customerID).Step; got != StepCustomDelivery {
		t.Fatalf("step = %q, want custom_delivery", got)
	}

	tb.say(customerID, BtnSkip)
	state := tb.step(t, customerID)
	if state.Step != StepConfirmation || state.Request.CustomDelivery != "" {
		t.Fatalf("state = %+v", state)
	}
}

func TestDialog_CustomDeliveryOutOfRange(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepCustomDelivery)

	tb.say(customerID, "99999999999 zł")
	state := tb.step(t, customerID)
	if state.Step != StepCustomDelivery || state.Request.CustomDelivery != "" {
		t.Fatalf("state = %+v, want custom_delivery re-asked", state)
	}
	if reply := tb.api.lastMessageTo(customerID); !strings.Contains(reply, "100 000 000") {
		t.Errorf("reply = %q, want the accepted maximum", reply)
	}

	tb.say(customerID, "100 000 000 zł")
	tb.say(customerID, BtnConfirm)
	if len(tb.store.offers) != 1 || tb.store.offers[0].CustomDeliveryCost != quotation.MaxAmount {
		t.Fatalf("offers = %+v", tb.store.offers)
	}
}

func TestDialog_SaveFailureKeepsState(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepConfirmation)
	tb.store.saveErr = errors.New("db down")

	tb.say(customerID, BtnConfirm)

	if got := tb.step(t, customerID).Step; got != StepConfirmation {
		t.Fatalf("step = %q, want confirmation", got)
	}
	if len(tb.api.messagesTo(adminID)) != 0 {
		t.Error("admins notified about an unsaved offer")
	}
}

func TestDialog_Cancel(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepFurnace)

	tb.say(customerID, "/cancel")

	if _, ok := tb.states.data[customerID]; ok {
		t.Fatal("state not cleared")
	}

	tb.say(customerID, "Ankel")
	if reply := tb.api.lastMessageTo(customerID); !strings.Contains(reply, "/start") {
		t.Errorf("reply without dialog = %q", reply)
	}
}

func TestAdminCommands(t *testing.T) {
	tb := newTestBot(t)
	tb.walkTo(t, StepConfirmation)
	tb.say(customerID, BtnConfirm)

	tb.say(customerID, "/stats")
	if reply := tb.api.lastMessageTo(customerID); !strings.HasPrefix(reply, "❌ Nieznana komenda") {
		t.Errorf("non-admin /stats reply = %q", reply)
	}

	tb.say(adminID, "/stats")
	if reply := tb.api.lastMessageTo(adminID); !strings.Contains(reply, "Wszystkie: 1") || !strings.Contains(reply, "Ankel Mini 1,8m: 1") {
		t.Errorf("/stats reply = %q", reply)
	}

	tb.say(adminID, "/offer 1")
	if reply := tb.api.lastMessageTo(adminID); !strings.Contains(reply, "SAU/2026/10/19 (nr 1)") {
		t.Errorf("/offer reply = %q", reply)
	}

	tb.say(adminID, "/offer 99")
	if reply := tb.api.lastMessageTo(adminID); !strings.Contains(reply, "Nie znaleziono oferty nr 99") {
		t.Errorf("/offer 99 reply = %q", reply)
	}

	tb.say(adminID, "/offer abc")
	if reply := tb.api.lastMessageTo(adminID); !strings.Contains(reply, "Nieprawidłowy numer") {
		t.Errorf("/offer abc reply = %q", reply)
	}

	before := len(tb.api.documentsTo(adminID))
	tb.say(adminID, "/export")
	tb.say(adminID, "/export 1")
	docs := tb.api.documentsTo(adminID)
	if len(docs) != before+2 {
		t.Fatalf("documents = %d, want %d", len(docs), before+2)
	}
	if name := filepath.Base(string(docs[len(docs)-2].File.(tgbotapi.FilePath))); name != "oferty.xlsx" {
		t.Errorf("export all document = %q", name)
	}

	left, err := os.ReadDir(tb.opts.ReportsDir)
	if err != nil {
		t.Fatalf("read reports dir: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("reports dir keeps %d sent files", len(left))
	}
}

func TestHelp(t *testing.T) {
	tb := newTestBot(t)

	tb.say(customerID, "/help")
	if reply := tb.api.lastMessageTo(customerID); strings.Contains(reply, "/stats") {
		t.Errorf("customer help lists admin commands: %q", reply)
	}

	tb.say(adminID, "/help")
	if reply := tb.api.lastMessageTo(adminID); !strings.Contains(reply, "/export <ID>") {
		t.Errorf("admin help = %q", reply)
	}
}

func TestStart_ProcessesUpdatesUntilCancelled(t *testing.T) {
	tb := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- tb.Start(ctx) }()

	tb.api.updates <- tgbotapi.Update{Message: message(customerID, "/start")}

	deadline := time.After(2 * time.Second)
	for len(tb.api.messagesTo(customerID)) < 2 {
		select {
		case <-deadline:
			t.Fatal("update was not processed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if !tb.api.stopped.Load() {
		t.Error("updates were not stopped")
	}
}
