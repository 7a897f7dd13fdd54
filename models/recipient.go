package models

import "encoding/json"

// AdminHandle, kalıcı kayıtlarda "tüm bağlı yöneticiler" anlamına gelen ayrılmış handle.
// Kod içinde doğrudan karşılaştırılmaz; Recipient üzerinden kullanılır.
const AdminHandle = "admin"

// Recipient, bir bildirimin hedefi: tek bir kimlik ya da tüm yöneticiler.
//
// Sıfır değer geçersizdir; SingleIdentity veya AllAdmins ile oluşturulur.
type Recipient struct {
	handle    string
	allAdmins bool
}

// SingleIdentity, tek bir kimliğe giden bir hedef döner.
func SingleIdentity(handle string) Recipient {
	return Recipient{handle: handle}
}

// AllAdmins, bağlı tüm yöneticilere giden hedefi döner.
func AllAdmins() Recipient {
	return Recipient{allAdmins: true}
}

// RecipientFromHandle, kalıcı kayıttaki handle'ı tekrar Recipient'a çevirir.
func RecipientFromHandle(handle string) Recipient {
	if handle == AdminHandle {
		return AllAdmins()
	}
	return SingleIdentity(handle)
}

// IsAllAdmins, hedefin yönetici havuzu olup olmadığını döner.
func (r Recipient) IsAllAdmins() bool {
	return r.allAdmins
}

// Identity, tek kimlik hedefinin handle'ını döner. AllAdmins için ok=false.
func (r Recipient) Identity() (string, bool) {
	if r.allAdmins {
		return "", false
	}
	return r.handle, true
}

// Handle, kalıcı kayıtta saklanan değeri döner.
func (r Recipient) Handle() string {
	if r.allAdmins {
		return AdminHandle
	}
	return r.handle
}

// Valid, sıfır değer olmayan bir hedef mi kontrol eder.
func (r Recipient) Valid() bool {
	return r.allAdmins || r.handle != ""
}

// String, log alanları için.
func (r Recipient) String() string {
	return r.Handle()
}

func (r Recipient) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Handle())
}

func (r *Recipient) UnmarshalJSON(data []byte) error {
	var handle string
	if err := json.Unmarshal(data, &handle); err != nil {
		return err
	}
	*r = RecipientFromHandle(handle)
	return nil
}

// Equal, iki hedefin aynı olup olmadığını döner. go-cmp bu metodu kullanır.
func (r Recipient) Equal(o Recipient) bool {
	return r.allAdmins == o.allAdmins && r.handle == o.handle
}
