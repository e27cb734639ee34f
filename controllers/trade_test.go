package controllers

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/openswap/swapex/config"
	"github.com/openswap/swapex/controllers/entities"
	"github.com/openswap/swapex/controllers/helpers"
	"github.com/openswap/swapex/models"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.NewLoggerService()

	os.Setenv("DATABASE_NAME", filepath.Join(t.TempDir(), "orders.db")+"?_busy_timeout=5000")
	config.App = &config.AppConfig{}
	config.App.Database.Adapter = "sqlite"

	if err := config.ConnectDatabase(); err != nil {
		t.Fatalf("connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app := fiber.New()
	app.Post("/trade", CreateTrade)
	app.Get("/order_book", GetOrderBook)

	return app
}

type algoAccount struct {
	address string
	secret  ed25519.PrivateKey
}

func newAlgoAccount(t *testing.T) *algoAccount {
	t.Helper()

	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	encoding := base32.StdEncoding.WithPadding(base32.NoPadding)
	sum := sha512.Sum512_256(pk)
	address := encoding.EncodeToString(append([]byte(pk), sum[len(sum)-4:]...))

	return &algoAccount{address: address, secret: sk}
}

func (a *algoAccount) sign(payload []byte) string {
	msg := append([]byte("MX"), payload...)
	return base64.StdEncoding.EncodeToString(ed25519.Sign(a.secret, msg))
}

func signedTrade(t *testing.T, account *algoAccount, buyCurrency, buyAmount, sellCurrency, sellAmount string) []byte {
	t.Helper()

	payload := helpers.TradePayloadParams{
		SenderPK:     account.address,
		ReceiverPK:   "receiver",
		BuyCurrency:  buyCurrency,
		SellCurrency: sellCurrency,
		BuyAmount:    decimal.RequireFromString(buyAmount),
		SellAmount:   decimal.RequireFromString(sellAmount),
		Platform:     "Algorand",
	}

	payload_message, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(helpers.CreateTradeParams{
		Sig:     account.sign(payload_message),
		Payload: payload,
	})
	if err != nil {
		t.Fatal(err)
	}

	return body
}

func postTrade(t *testing.T, app *fiber.App, body []byte) string {
	t.Helper()

	req := httptest.NewRequest("POST", "/trade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return string(data)
}

func auditLogCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	if err := config.DataBase.Model(&models.Log{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	return count
}

func TestCreateTradeAndRest(t *testing.T) {
	app := setupApp(t)
	account := newAlgoAccount(t)

	if body := postTrade(t, app, signedTrade(t, account, "ETH", "50", "ALGO", "100")); body != "true" {
		t.Fatalf("expected true, got %s", body)
	}

	var order models.Order
	if err := config.DataBase.First(&order).Error; err != nil {
		t.Fatalf("expected the order to be persisted: %v", err)
	}
	if !order.Resting() {
		t.Error("unmatched order should rest with filled = null")
	}
	if order.SenderPK != account.address {
		t.Errorf("unexpected sender: %s", order.SenderPK)
	}
}

func TestCreateTradeMatchesReciprocalOrder(t *testing.T) {
	app := setupApp(t)
	maker := newAlgoAccount(t)
	taker := newAlgoAccount(t)

	if body := postTrade(t, app, signedTrade(t, maker, "ETH", "50", "ALGO", "100")); body != "true" {
		t.Fatalf("expected true, got %s", body)
	}
	if body := postTrade(t, app, signedTrade(t, taker, "ALGO", "100", "ETH", "50")); body != "true" {
		t.Fatalf("expected true, got %s", body)
	}

	var orders []models.Order
	config.DataBase.Order("id asc").Find(&orders)
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, order := range orders {
		if order.Resting() {
			t.Errorf("order %d should be filled", order.ID)
		}
	}
	if orders[0].CounterpartyID.Int64 != orders[1].ID || orders[1].CounterpartyID.Int64 != orders[0].ID {
		t.Error("orders should be mutually counterparty-linked")
	}
}

func TestCreateTradeMissingFields(t *testing.T) {
	app := setupApp(t)

	// No sig at all.
	if body := postTrade(t, app, []byte(`{"payload":{"sender_pk":"a"}}`)); body != "false" {
		t.Fatalf("expected false, got %s", body)
	}

	// Payload missing required columns.
	if body := postTrade(t, app, []byte(`{"sig":"x","payload":{"sender_pk":"a","buy_currency":"ETH"}}`)); body != "false" {
		t.Fatalf("expected false, got %s", body)
	}

	if count := auditLogCount(t); count != 2 {
		t.Errorf("expected 2 audit entries, got %d", count)
	}

	var count int64
	config.DataBase.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Error("rejected submissions must not create orders")
	}
}

func TestCreateTradeMalformedBody(t *testing.T) {
	app := setupApp(t)

	if body := postTrade(t, app, []byte(`{not json`)); body != "false" {
		t.Fatalf("expected false, got %s", body)
	}
	if count := auditLogCount(t); count != 1 {
		t.Errorf("expected 1 audit entry, got %d", count)
	}
}

func TestCreateTradeBadSignature(t *testing.T) {
	app := setupApp(t)
	account := newAlgoAccount(t)
	other := newAlgoAccount(t)

	body := signedTrade(t, account, "ETH", "50", "ALGO", "100")

	// Re-sign the same payload with a different key but keep the claimed
	// sender, so only the signature check can catch it.
	var params helpers.CreateTradeParams
	if err := json.Unmarshal(body, &params); err != nil {
		t.Fatal(err)
	}
	payload_message, _ := json.Marshal(params.Payload)
	params.Sig = other.sign(payload_message)
	forged, _ := json.Marshal(params)

	if resp := postTrade(t, app, forged); resp != "false" {
		t.Fatalf("expected false, got %s", resp)
	}
	if count := auditLogCount(t); count != 1 {
		t.Errorf("expected 1 audit entry, got %d", count)
	}

	var count int64
	config.DataBase.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Error("a submission with a bad signature must not create an order")
	}
}

func TestGetOrderBook(t *testing.T) {
	app := setupApp(t)
	account := newAlgoAccount(t)

	if body := postTrade(t, app, signedTrade(t, account, "ETH", "50", "ALGO", "100")); body != "true" {
		t.Fatal("submission should succeed")
	}

	req := httptest.NewRequest("GET", "/order_book", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var book entities.OrderBookEntity
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		t.Fatal(err)
	}

	if len(book.Data) != 1 {
		t.Fatalf("expected 1 order in the book, got %d", len(book.Data))
	}
	if book.Data[0].SenderPK != account.address {
		t.Errorf("unexpected sender in book projection: %s", book.Data[0].SenderPK)
	}
	if len(book.Data[0].Signature) == 0 {
		t.Error("book projection should include the submission signature")
	}
}
