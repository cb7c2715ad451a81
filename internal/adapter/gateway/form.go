package gateway

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
)

const mpgVersion = "2.0"

// CheckoutRequest carries the order data the gateway form needs. The order id
// becomes the merchant trade number so both systems can be correlated later.
type CheckoutRequest struct {
	OrderID    string
	TotalPrice float64
	Email      string
	ItemDesc   string
}

// FormGenerator translates an order into the gateway's encrypted
// auto-submitting payment form. It never mutates order state.
type FormGenerator struct {
	mpgURL     string
	merchantID string
	hashKey    []byte
	hashIV     []byte
	returnURL  string
	notifyURL  string

	now func() time.Time
}

// New validates the merchant credentials and builds a generator.
func New(mpgURL, merchantID, hashKey, hashIV, returnURL, notifyURL string) (*FormGenerator, error) {
	if mpgURL == "" || merchantID == "" {
		return nil, &domainErrors.GatewayError{Err: fmt.Errorf("merchant configuration missing")}
	}
	if len(hashKey) != 32 {
		return nil, &domainErrors.GatewayError{Err: fmt.Errorf("hash key must be 32 bytes, got %d", len(hashKey))}
	}
	if len(hashIV) != aes.BlockSize {
		return nil, &domainErrors.GatewayError{Err: fmt.Errorf("hash IV must be %d bytes, got %d", aes.BlockSize, len(hashIV))}
	}
	return &FormGenerator{
		mpgURL:     mpgURL,
		merchantID: merchantID,
		hashKey:    []byte(hashKey),
		hashIV:     []byte(hashIV),
		returnURL:  returnURL,
		notifyURL:  notifyURL,
		now:        time.Now,
	}, nil
}

var formTemplate = template.Must(template.New("mpg").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body onload="document.forms[0].submit();">
<form method="post" action="{{.Action}}">
<input type="hidden" name="MerchantID" value="{{.MerchantID}}">
<input type="hidden" name="TradeInfo" value="{{.TradeInfo}}">
<input type="hidden" name="TradeSha" value="{{.TradeSha}}">
<input type="hidden" name="Version" value="{{.Version}}">
</form>
</body>
</html>
`))

type formFields struct {
	Action     string
	MerchantID string
	TradeInfo  string
	TradeSha   string
	Version    string
}

// BuildForm produces the self-submitting HTML document for an order.
func (g *FormGenerator) BuildForm(req CheckoutRequest) (string, error) {
	if req.OrderID == "" {
		return "", &domainErrors.GatewayError{Err: fmt.Errorf("order id is empty")}
	}

	payload := url.Values{}
	payload.Set("MerchantID", g.merchantID)
	payload.Set("RespondType", "JSON")
	payload.Set("TimeStamp", strconv.FormatInt(g.now().Unix(), 10))
	payload.Set("Version", mpgVersion)
	payload.Set("MerchantOrderNo", req.OrderID)
	payload.Set("Amt", strconv.Itoa(int(math.Round(req.TotalPrice))))
	payload.Set("ItemDesc", req.ItemDesc)
	payload.Set("Email", req.Email)
	if g.returnURL != "" {
		payload.Set("ReturnURL", g.returnURL)
	}
	if g.notifyURL != "" {
		payload.Set("NotifyURL", g.notifyURL)
	}

	tradeInfo, err := g.encrypt(payload.Encode())
	if err != nil {
		return "", &domainErrors.GatewayError{Err: err}
	}

	var buf bytes.Buffer
	err = formTemplate.Execute(&buf, formFields{
		Action:     g.mpgURL,
		MerchantID: g.merchantID,
		TradeInfo:  tradeInfo,
		TradeSha:   g.checksum(tradeInfo),
		Version:    mpgVersion,
	})
	if err != nil {
		return "", &domainErrors.GatewayError{Err: err}
	}
	return buf.String(), nil
}

func (g *FormGenerator) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(g.hashKey)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, g.hashIV).CryptBlocks(encrypted, padded)
	return hex.EncodeToString(encrypted), nil
}

func (g *FormGenerator) checksum(tradeInfo string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("HashKey=%s&%s&HashIV=%s", g.hashKey, tradeInfo, g.hashIV)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}
