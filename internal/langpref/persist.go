package langpref

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
)

// StorageKey is the fixed name the preference is stored under.
const StorageKey = "app-lang"

const cookieMaxAge = 365 * 24 * time.Hour

// ErrStorageUnavailable is returned by persisters that cannot reach their backing store.
var ErrStorageUnavailable = errors.New("langpref: storage unavailable")

// MemoryPersister keeps the value in process memory.
type MemoryPersister struct {
	mu    sync.Mutex
	value string
	// Err, when set, is returned from both Load and Save.
	Err error
}

// NewMemoryPersister returns a persister seeded with value.
func NewMemoryPersister(value string) *MemoryPersister {
	return &MemoryPersister{value: value}
}

func (m *MemoryPersister) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.value, nil
}

func (m *MemoryPersister) Save(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.value = value
	return nil
}

// Value returns the last saved value.
func (m *MemoryPersister) Value() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// CookieCodec signs (and optionally encrypts) the preference cookie.
type CookieCodec struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewCookieCodec builds a codec. hashKey is required; blockKey may be nil.
func NewCookieCodec(hashKey, blockKey []byte, secure bool) (*CookieCodec, error) {
	if len(hashKey) == 0 {
		return nil, errors.New("langpref: cookie hash key is required")
	}
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(cookieMaxAge.Seconds()))
	return &CookieCodec{codec: codec, secure: secure}, nil
}

// Persister binds the codec to one request/response pair.
func (c *CookieCodec) Persister(w http.ResponseWriter, r *http.Request) *CookiePersister {
	return &CookiePersister{codec: c, w: w, r: r}
}

// CookiePersister stores the preference in a signed cookie named StorageKey.
type CookiePersister struct {
	codec *CookieCodec
	w     http.ResponseWriter
	r     *http.Request
}

// Load returns "" when the cookie is absent and an error when it fails verification.
func (p *CookiePersister) Load() (string, error) {
	if p.codec == nil || p.r == nil {
		return "", ErrStorageUnavailable
	}
	c, err := p.r.Cookie(StorageKey)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var value string
	if err := p.codec.codec.Decode(StorageKey, c.Value, &value); err != nil {
		return "", err
	}
	return value, nil
}

func (p *CookiePersister) Save(value string) error {
	if p.codec == nil || p.w == nil {
		return ErrStorageUnavailable
	}
	encoded, err := p.codec.codec.Encode(StorageKey, value)
	if err != nil {
		return err
	}
	http.SetCookie(p.w, &http.Cookie{
		Name:     StorageKey,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.codec.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieMaxAge.Seconds()),
	})
	return nil
}
