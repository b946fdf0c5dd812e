package services

import (
	"journal-management-api/models"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// PaymentGateway creates hosted-checkout transactions with the external
// payment provider. Kept behind an interface so workflow tests run without
// network access.
type PaymentGateway interface {
	CreateTransaction(orderID string, amount int64, payer *models.User) (token, redirectURL string, err error)
}

// SnapGateway is the Midtrans Snap implementation of PaymentGateway.
type SnapGateway struct {
	client snap.Client
}

func NewSnapGateway(serverKey string, sandbox bool) *SnapGateway {
	env := midtrans.Production
	if sandbox {
		env = midtrans.Sandbox
	}
	g := &SnapGateway{}
	g.client.New(serverKey, env)
	return g
}

func (g *SnapGateway) CreateTransaction(orderID string, amount int64, payer *models.User) (string, string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: payer.UserFname,
			LName: payer.UserLname,
			Email: payer.Email,
		},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}
