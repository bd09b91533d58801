//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smartwallet/backend/config"
	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/infra/dependency"
	"github.com/smartwallet/backend/internal/integration/persistence"
	"github.com/smartwallet/backend/internal/integration/persistence/model"
	"github.com/smartwallet/backend/test/integration/mock"
)

const (
	testJWTSecret       = "test-jwt-secret-key-for-testing-purposes"
	defaultTestPassword = "senha1234"
)

var tags string

func init() {
	flag.StringVar(&tags, "scenarios", "", "tags to run")
}

func TestFeatures(t *testing.T) {
	flag.Parse()
	gin.SetMode(gin.TestMode)

	suite := godog.TestSuite{
		Name: "smartwallet-api",
		ScenarioInitializer: func(s *godog.ScenarioContext) {
			InitializeScenario(s)
		},
		Options: &godog.Options{
			Format:      "pretty",
			Paths:       []string{"../features"},
			Tags:        tags,
			Concurrency: 1,
			Strict:      true,
			TestingT:    t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type testContext struct {
	server   *httptest.Server
	injector *dependency.Injector
	client   *http.Client
	headers  map[string]string
	response *response

	db       *mock.Db
	redis    *redis.Client
	fxAPI    *mock.ApiMock
	timeMock *mock.Time

	accessToken   string
	refreshToken  string
	currentUserID uuid.UUID
	lastID        string
}

type response struct {
	status int
	body   any
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	_, redisClient := mock.NewRedis()
	test := &testContext{
		client:   &http.Client{Timeout: 10 * time.Second},
		timeMock: mock.NewTime(),
		redis:    redisClient,
		fxAPI:    mock.NewApiServer(),
		db: mock.NewDb(map[string]any{
			"users":                 &model.UserModel{},
			"refresh_tokens":        &model.RefreshTokenModel{},
			"transactions":          &model.TransactionModel{},
			"categories":            &model.CategoryModel{},
			"budgets":               &model.BudgetModel{},
			"recurring_items":       &model.RecurringModel{},
			"recurring_occurrences": &model.RecurringOccurrenceModel{},
			"email_queue":           &model.EmailQueueModel{},
		}),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.after()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)"$`, test.aUserExistsWithEmail)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)

	// Clock and third-party steps
	ctx.Given(`^today is "([^"]*)"$`, test.todayIs)
	ctx.Given(`^the exchange API quotes "([^"]*)" at "([^"]*)"$`, test.theExchangeAPIQuotes)
	ctx.Given(`^the exchange API is down$`, test.theExchangeAPIIsDown)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^the recurring job runs$`, test.theRecurringJobRuns)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items$`, test.theResponseFieldShouldHaveItems)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)

	// Third-party assertion steps
	ctx.Then(`^the exchange API should have received (\d+) requests?$`, test.theExchangeAPIShouldHaveReceived)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = uuid.Nil
	t.lastID = ""
	t.timeMock.Reset()

	if err := t.db.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(t.redis); err != nil {
		return err
	}
	t.fxAPI.Close()
	t.fxAPI.Reset()
	t.fxAPI.Start()
	return nil
}

func (t *testContext) after() {
	if t.server != nil {
		t.server.Close()
		t.server = nil
	}
	t.injector = nil
}

func (t *testContext) testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment:    "test",
			LoginPerMinute: 5,
		},
		Database: config.DatabaseConfig{Driver: "sqlite"},
		JWT: config.JWTConfig{
			Secret:             testJWTSecret,
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Gemini: config.GeminiConfig{
			Models:            config.DefaultGeminiModels,
			RequestsPerMinute: 15,
			Timeout:           time.Second,
		},
		FX: config.FXConfig{
			FXRatesBaseURL:    t.fxAPI.GetUrl(),
			AwesomeAPIBaseURL: t.fxAPI.GetUrl(),
			CacheTTL:          5 * time.Minute,
			Timeout:           2 * time.Second,
		},
		Email: config.EmailConfig{
			FromName:      "SmartWallet",
			FromEmail:     "test@smartwallet.dev",
			AppBaseURL:    "http://localhost:5173",
			PollInterval:  time.Second,
			BatchSize:     10,
			RetentionDays: 45,
		},
		Scheduler: config.SchedulerConfig{Timezone: "UTC"},
		Log:       config.LogConfig{Level: "error", Format: "text"},
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	injector, err := dependency.NewInjector(context.Background(), t.testConfig(), t.db.DbConn, t.redis)
	if err != nil {
		return fmt.Errorf("failed to build injector: %w", err)
	}
	injector.Interpret.SetClock(t.timeMock.Now)

	t.injector = injector
	t.server = httptest.NewServer(injector.Router.Setup("test"))
	return nil
}

func (t *testContext) aUserExistsWithEmail(email string) error {
	return t.createUser(email, defaultTestPassword)
}

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	return t.createUser(email, password)
}

func (t *testContext) createUser(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user := entity.NewUser(email, strings.Split(email, "@")[0], string(hash))
	if err := persistence.NewUserRepository(t.db.DbConn).Create(context.Background(), user); err != nil {
		return err
	}
	t.currentUserID = user.ID
	return nil
}

func (t *testContext) iAmLoggedInAs(email string) error {
	if err := t.createUser(email, defaultTestPassword); err != nil {
		return err
	}
	body := fmt.Sprintf(`{"email": %q, "password": %q}`, email, defaultTestPassword)
	if err := t.executeRequest(http.MethodPost, "/api/v1/auth/login", []byte(body)); err != nil {
		return err
	}
	if t.response.status != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %v", t.response.status, t.response.body)
	}
	if t.accessToken == "" {
		return errors.New("login response has no access token")
	}
	return nil
}

func (t *testContext) todayIs(date string) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	t.timeMock.SetCurrentTime(day.Add(12 * time.Hour))
	return nil
}

func (t *testContext) theExchangeAPIQuotes(currency, bid string) error {
	t.fxAPI.SetResponse(-1, http.MethodGet, "/last/*", http.StatusOK, map[string]any{
		currency + "BRL": map[string]any{"code": currency, "codein": "BRL", "bid": bid},
	})
	return nil
}

func (t *testContext) theExchangeAPIIsDown() error {
	t.fxAPI.SetResponse(-1, http.MethodGet, "/last/*", http.StatusServiceUnavailable, map[string]any{"error": "maintenance"})
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) theRecurringJobRuns() error {
	output, err := t.injector.ProcessAllRecurring.Execute(context.Background(), t.timeMock.Now())
	if err != nil {
		return err
	}
	if output.Failed > 0 {
		return fmt.Errorf("%d users failed recurring processing", output.Failed)
	}
	return nil
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{last_id}}", t.lastID)
	content = strings.ReplaceAll(content, "{{current_month}}", time.Now().UTC().Format("2006-01"))
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	if t.server == nil {
		return errors.New("the API server is not running")
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, t.server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	if token, ok := responseBody["access_token"].(string); ok && token != "" {
		t.accessToken = token
	}
	if token, ok := responseBody["refresh_token"].(string); ok && token != "" {
		t.refreshToken = token
	}
	if id, ok := getFieldValue(responseBody, "id").(string); ok {
		t.lastID = id
	} else if id, ok := getFieldValue(responseBody, "transaction.id").(string); ok {
		t.lastID = id
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, quantity int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != quantity {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, quantity, len(items))
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	row, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(row).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) theExchangeAPIShouldHaveReceived(quantity int) error {
	requests := t.fxAPI.Requests(http.MethodGet, "/last/*")
	if len(requests) != quantity {
		return fmt.Errorf("expected %d exchange API requests, got %d", quantity, len(requests))
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	var field any = object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}
	return field
}
