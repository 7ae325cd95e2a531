package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testBudgets() map[Category]int {
	return map[Category]int{
		CategoryAuth:    10,
		CategoryContact: 5,
		CategoryAPI:     60,
	}
}

func newTestLimiter(now *time.Time) *Limiter {
	l := NewLimiter(testBudgets(), time.Minute)
	l.now = func() time.Time { return *now }
	return l
}

func TestLimiter_BudgetExhaustion(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Admit("1.2.3.4", CategoryContact), "request %d should be admitted", i+1)
	}
	assert.False(t, l.Admit("1.2.3.4", CategoryContact), "request over budget should be rejected")
}

func TestLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	for i := 0; i < 10; i++ {
		assert.True(t, l.Admit("1.2.3.4", CategoryAuth))
	}
	assert.False(t, l.Admit("1.2.3.4", CategoryAuth))

	// old timestamps fall out of the window and get pruned
	now = now.Add(61 * time.Second)
	assert.True(t, l.Admit("1.2.3.4", CategoryAuth))
}

func TestLimiter_RejectedAttemptsNotRecorded(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		l.Admit("1.2.3.4", CategoryContact)
	}
	// hammering while rejected must not extend the exhaustion
	for i := 0; i < 100; i++ {
		assert.False(t, l.Admit("1.2.3.4", CategoryContact))
	}
	assert.Len(t, l.requests["1.2.3.4:contact"], 5)
}

func TestLimiter_ClientsDoNotShareBudgets(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Admit("1.2.3.4", CategoryContact))
	}
	assert.False(t, l.Admit("1.2.3.4", CategoryContact))
	assert.True(t, l.Admit("5.6.7.8", CategoryContact), "a different client has its own budget")
}

func TestLimiter_CategoriesDoNotShareBudgets(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Admit("1.2.3.4", CategoryContact))
	}
	assert.False(t, l.Admit("1.2.3.4", CategoryContact))
	assert.True(t, l.Admit("1.2.3.4", CategoryAPI), "a different category has its own budget")
}

func TestLimiter_UnknownClientsShareOneBudget(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Admit(UnknownClient, CategoryContact))
	}
	assert.False(t, l.Admit(UnknownClient, CategoryContact))
}

func TestLimiter_UncategorizedNeverLimited(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	for i := 0; i < 1000; i++ {
		assert.True(t, l.Admit("1.2.3.4", Category("")))
	}
}

func TestLimiter_PrunedSequencesDoNotGrow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	// repeated activity spread over many windows keeps only the live entries
	for i := 0; i < 50; i++ {
		assert.True(t, l.Admit("1.2.3.4", CategoryAPI))
		now = now.Add(2 * time.Minute)
	}
	assert.Len(t, l.requests["1.2.3.4:api"], 1)
	assert.Len(t, l.requests, 1)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path     string
		category Category
		limited  bool
	}{
		{"/login", CategoryAuth, true},
		{"/login/foo", CategoryAuth, true},
		{"/signup", CategoryAuth, true},
		{"/reset-password", CategoryAuth, true},
		{"/api/contact", CategoryContact, true},
		{"/api/progress", CategoryAPI, true},
		{"/api/anything-else", CategoryAPI, true},
		{"/blog", "", false},
		{"/", "", false},
		{"/api", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			category, limited := Classify(tt.path)
			assert.Equal(t, tt.limited, limited)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		realIP    string
		want      string
	}{
		{"forwarded-for single value", "203.0.113.7", "", "203.0.113.7"},
		{"forwarded-for takes first value", "203.0.113.7, 10.0.0.1, 10.0.0.2", "198.51.100.1", "203.0.113.7"},
		{"forwarded-for trims spaces", "  203.0.113.7 ,10.0.0.1", "", "203.0.113.7"},
		{"real-ip fallback", "", "198.51.100.1", "198.51.100.1"},
		{"no headers", "", "", UnknownClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/progress", nil)
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, ClientIdentifier(r))
		})
	}
}
