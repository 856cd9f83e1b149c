package domain

import (
	"fmt"
	"strings"
)

// ShippingAddress — адрес доставки покупателя.
// Phone и Address2 опциональны, остальные поля обязательны при оформлении заказа.
type ShippingAddress struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Country   string
	Region    string
	Address1  string
	Address2  string
	City      string
	Zip       string
}

// requiredAddressFields задаёт порядок проверки обязательных полей,
// чтобы сообщения об ошибках были детерминированными.
var requiredAddressFields = []struct {
	name  string
	value func(a *ShippingAddress) string
}{
	{"first_name", func(a *ShippingAddress) string { return a.FirstName }},
	{"last_name", func(a *ShippingAddress) string { return a.LastName }},
	{"email", func(a *ShippingAddress) string { return a.Email }},
	{"country", func(a *ShippingAddress) string { return a.Country }},
	{"region", func(a *ShippingAddress) string { return a.Region }},
	{"address1", func(a *ShippingAddress) string { return a.Address1 }},
	{"city", func(a *ShippingAddress) string { return a.City }},
	{"zip", func(a *ShippingAddress) string { return a.Zip }},
}

// ValidateRequired возвращает по ошибке на каждое отсутствующее обязательное поле.
// Каждая ошибка оборачивает ErrAddressFieldRequired и называет конкретное поле.
func (a *ShippingAddress) ValidateRequired() []error {
	var errs []error
	for _, field := range requiredAddressFields {
		if strings.TrimSpace(field.value(a)) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrAddressFieldRequired, field.name))
		}
	}
	return errs
}

// Normalize возвращает копию адреса с обрезанными пробелами во всех полях.
// Провайдер чувствителен к лишним пробелам в адресных строках.
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		FirstName: strings.TrimSpace(a.FirstName),
		LastName:  strings.TrimSpace(a.LastName),
		Email:     strings.TrimSpace(a.Email),
		Phone:     strings.TrimSpace(a.Phone),
		Country:   strings.TrimSpace(a.Country),
		Region:    strings.TrimSpace(a.Region),
		Address1:  strings.TrimSpace(a.Address1),
		Address2:  strings.TrimSpace(a.Address2),
		City:      strings.TrimSpace(a.City),
		Zip:       strings.TrimSpace(a.Zip),
	}
}
