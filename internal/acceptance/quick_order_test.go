package acceptance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/jcmexdev/quick-order/internal/coordinator"
	"github.com/jcmexdev/quick-order/internal/coordinator/submitlog"
	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/form"
	"github.com/jcmexdev/quick-order/internal/storefront/infra/adapters/cartclient"
)

type lineItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type recordedCall struct {
	method string
	path   string
	lines  []lineItem
}

// cartServiceStub speaks the cart service HTTP contract and records calls.
type cartServiceStub struct {
	mu          sync.Mutex
	calls       []recordedCall
	activeCarts []string
	failStatus  int
	failDetail  string
}

func (s *cartServiceStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LineItems []lineItem `json:"lineItems"`
	}
	if r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	s.mu.Lock()
	s.calls = append(s.calls, recordedCall{method: r.Method, path: r.URL.Path, lines: body.LineItems})
	active := append([]string(nil), s.activeCarts...)
	failStatus, failDetail := s.failStatus, s.failDetail
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/storefront/carts":
		out := make([]map[string]string, len(active))
		for i, id := range active {
			out[i] = map[string]string{"id": id}
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPost && r.URL.Path == "/api/storefront/carts":
		if failStatus != 0 {
			w.WriteHeader(failStatus)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": failStatus, "title": http.StatusText(failStatus), "detail": failDetail})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "new-cart"})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/items"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/storefront/carts/"), "/items")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *cartServiceStub) recorded() []recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedCall(nil), s.calls...)
}

// navigationRecorder implements ports.Navigator.
type navigationRecorder struct {
	mu      sync.Mutex
	targets []string
}

func (n *navigationRecorder) Navigate(_ context.Context, target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

type quickOrderTestContext struct {
	stub    *cartServiceStub
	server  *httptest.Server
	nav     *navigationRecorder
	catalog []entity.Item
	form    *form.Form
	outcome form.Outcome
}

func (c *quickOrderTestContext) reset() {
	c.stub = &cartServiceStub{}
	c.server = httptest.NewServer(c.stub)
	c.nav = &navigationRecorder{}
	c.catalog = nil
	c.form = nil
	c.outcome = ""
}

func (c *quickOrderTestContext) close() {
	if c.server != nil {
		c.server.Close()
	}
}

func (c *quickOrderTestContext) ensureForm() error {
	if c.form != nil {
		return nil
	}
	client := cartclient.New(c.server.URL, 2*time.Second)
	submitter := coordinator.NewSubmitter(client, submitlog.NewMemoryRepository())
	f, err := form.New("acceptance-form", c.catalog, submitter, c.nav)
	if err != nil {
		return err
	}
	c.form = f
	return nil
}

// Given steps

func (c *quickOrderTestContext) theCatalog(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		id, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return fmt.Errorf("bad id %q: %w", row.Cells[0].Value, err)
		}
		c.catalog = append(c.catalog, entity.Item{
			ID:             entity.ItemID(id),
			DisplayName:    row.Cells[1].Value,
			FormattedPrice: row.Cells[2].Value,
		})
	}
	return nil
}

func (c *quickOrderTestContext) theCartServiceHasNoActiveCart() error {
	c.stub.mu.Lock()
	defer c.stub.mu.Unlock()
	c.stub.activeCarts = nil
	return nil
}

func (c *quickOrderTestContext) theCartServiceHasAnActiveCart(id string) error {
	c.stub.mu.Lock()
	defer c.stub.mu.Unlock()
	c.stub.activeCarts = append(c.stub.activeCarts, id)
	return nil
}

func (c *quickOrderTestContext) theCartServiceFailsCartCreation(status int, detail string) error {
	c.stub.mu.Lock()
	defer c.stub.mu.Unlock()
	c.stub.failStatus = status
	c.stub.failDetail = detail
	return nil
}

// When steps

func (c *quickOrderTestContext) iSetTheQuantityOfItemTo(id int, raw string) error {
	if err := c.ensureForm(); err != nil {
		return err
	}
	c.form.SetQuantity(entity.ItemID(id), raw)
	return nil
}

func (c *quickOrderTestContext) iSubmitTheForm() error {
	if err := c.ensureForm(); err != nil {
		return err
	}
	ctx := interceptors.WithSessionToken(context.Background(), "shopper-token")
	c.outcome = c.form.Submit(ctx)
	return nil
}

// Then steps

func (c *quickOrderTestContext) writes(path func(string) bool) []recordedCall {
	var out []recordedCall
	for _, call := range c.stub.recorded() {
		if call.method == http.MethodPost && path(call.path) {
			out = append(out, call)
		}
	}
	return out
}

func isCreate(p string) bool { return p == "/api/storefront/carts" }
func isAppend(p string) bool { return strings.HasSuffix(p, "/items") }

func expectLines(got []lineItem, table *godog.Table) error {
	var want []lineItem
	for _, row := range table.Rows[1:] {
		id, _ := strconv.Atoi(row.Cells[0].Value)
		qty, _ := strconv.Atoi(row.Cells[1].Value)
		want = append(want, lineItem{ProductID: id, Quantity: qty})
	}
	if len(got) != len(want) {
		return fmt.Errorf("expected line items %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected line items %v, got %v", want, got)
		}
	}
	return nil
}

func (c *quickOrderTestContext) theCartServiceReceivedACreateCallWithLineItems(table *godog.Table) error {
	creates := c.writes(isCreate)
	if len(creates) != 1 {
		return fmt.Errorf("expected one create call, got %d", len(creates))
	}
	return expectLines(creates[0].lines, table)
}

func (c *quickOrderTestContext) theCartServiceReceivedAnAppendCallToCartWithLineItems(cartID string, table *godog.Table) error {
	appends := c.writes(isAppend)
	if len(appends) != 1 {
		return fmt.Errorf("expected one append call, got %d", len(appends))
	}
	if want := "/api/storefront/carts/" + cartID + "/items"; appends[0].path != want {
		return fmt.Errorf("expected append to %s, got %s", want, appends[0].path)
	}
	return expectLines(appends[0].lines, table)
}

func (c *quickOrderTestContext) theCartServiceReceivedNoCreateCall() error {
	if n := len(c.writes(isCreate)); n != 0 {
		return fmt.Errorf("expected no create call, got %d", n)
	}
	return nil
}

func (c *quickOrderTestContext) theCartServiceReceivedNoAppendCall() error {
	if n := len(c.writes(isAppend)); n != 0 {
		return fmt.Errorf("expected no append call, got %d", n)
	}
	return nil
}

func (c *quickOrderTestContext) theCartServiceReceivedNoCalls() error {
	if calls := c.stub.recorded(); len(calls) != 0 {
		return fmt.Errorf("expected no calls, got %d", len(calls))
	}
	return nil
}

func (c *quickOrderTestContext) navigationToWasRequested(target string) error {
	c.nav.mu.Lock()
	defer c.nav.mu.Unlock()
	if len(c.nav.targets) != 1 || c.nav.targets[0] != target {
		return fmt.Errorf("expected navigation to %s, got %v", target, c.nav.targets)
	}
	return nil
}

func (c *quickOrderTestContext) noNavigationWasRequested() error {
	c.nav.mu.Lock()
	defer c.nav.mu.Unlock()
	if len(c.nav.targets) != 0 {
		return fmt.Errorf("expected no navigation, got %v", c.nav.targets)
	}
	return nil
}

func (c *quickOrderTestContext) theFeedbackMessageIs(msg string) error {
	snap := c.form.Snapshot()
	if snap.Message != msg {
		return fmt.Errorf("expected feedback %q, got %q", msg, snap.Message)
	}
	return nil
}

func (c *quickOrderTestContext) theFeedbackShowsTheError(msg string) error {
	snap := c.form.Snapshot()
	if snap.MessageKind != form.FeedbackError || snap.Message != msg {
		return fmt.Errorf("expected error feedback %q, got %q (%s)", msg, snap.Message, snap.MessageKind)
	}
	return nil
}

func (c *quickOrderTestContext) theSubmitTriggerIsEnabled() error {
	if !c.form.Snapshot().SubmitEnabled {
		return fmt.Errorf("expected submit trigger enabled")
	}
	return nil
}

func (c *quickOrderTestContext) theSubmissionStateIs(state string) error {
	if got := c.form.Snapshot().State; string(got) != state {
		return fmt.Errorf("expected state %s, got %s", state, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &quickOrderTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.close()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog:$`, tc.theCatalog)
	ctx.Step(`^the cart service has no active cart$`, tc.theCartServiceHasNoActiveCart)
	ctx.Step(`^the cart service has an active cart "([^"]*)"$`, tc.theCartServiceHasAnActiveCart)
	ctx.Step(`^the cart service fails cart creation with status (\d+) and detail "([^"]*)"$`, tc.theCartServiceFailsCartCreation)

	// When steps
	ctx.Step(`^I set the quantity of item (\d+) to "([^"]*)"$`, tc.iSetTheQuantityOfItemTo)
	ctx.Step(`^I submit the form$`, tc.iSubmitTheForm)

	// Then steps
	ctx.Step(`^the cart service received a create call with line items:$`, tc.theCartServiceReceivedACreateCallWithLineItems)
	ctx.Step(`^the cart service received an append call to cart "([^"]*)" with line items:$`, tc.theCartServiceReceivedAnAppendCallToCartWithLineItems)
	ctx.Step(`^the cart service received no create call$`, tc.theCartServiceReceivedNoCreateCall)
	ctx.Step(`^the cart service received no append call$`, tc.theCartServiceReceivedNoAppendCall)
	ctx.Step(`^the cart service received no calls$`, tc.theCartServiceReceivedNoCalls)
	ctx.Step(`^navigation to "([^"]*)" was requested$`, tc.navigationToWasRequested)
	ctx.Step(`^no navigation was requested$`, tc.noNavigationWasRequested)
	ctx.Step(`^the feedback message is "([^"]*)"$`, tc.theFeedbackMessageIs)
	ctx.Step(`^the feedback shows the error "([^"]*)"$`, tc.theFeedbackShowsTheError)
	ctx.Step(`^the submit trigger is enabled$`, tc.theSubmitTriggerIsEnabled)
	ctx.Step(`^the submission state is "([^"]*)"$`, tc.theSubmissionStateIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/quick_order.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
