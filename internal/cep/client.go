package cep

import (
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/talkincode/casadobolo/pkg/common"
)

// Address is the subset of the ViaCEP response the checkout form consumes.
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
}

type viaCepResponse struct {
	Logradouro string `json:"logradouro"`
	Localidade string `json:"localidade"`
	Bairro     string `json:"bairro"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// Client resolves Brazilian postal codes through the public ViaCEP service.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient() *Client {
	return &Client{baseURL: "https://viacep.com.br", timeout: 5 * time.Second}
}

// NewClientWithBase points the client at an alternate endpoint (tests).
func NewClientWithBase(baseURL string) *Client {
	return &Client{baseURL: baseURL, timeout: 5 * time.Second}
}

var ErrInvalidCep = errors.New("cep must have exactly 8 digits")
var ErrNotFound = errors.New("cep not found")

// Lookup resolves an 8-digit postal code. Non-digit characters are stripped
// before validation.
func (c *Client) Lookup(cep string) (*Address, error) {
	digits := common.DigitsOnly(cep)
	if len(digits) != 8 {
		return nil, ErrInvalidCep
	}

	var resp viaCepResponse
	err := gout.GET(fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)).
		SetTimeout(c.timeout).
		BindJSON(&resp).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "viacep request")
	}
	if resp.Erro {
		return nil, ErrNotFound
	}

	return &Address{
		Street:   resp.Logradouro,
		City:     resp.Localidade,
		District: resp.Bairro,
		State:    resp.UF,
	}, nil
}
