package server

import "github.com/sig-0/fxquotes/cache"

type readDelegate func() cache.View

type mockQuoteReader struct {
	readFn readDelegate
}

func (m *mockQuoteReader) Read() cache.View {
	if m.readFn != nil {
		return m.readFn()
	}

	return cache.View{}
}

// staticReader always serves the given view
func staticReader(view cache.View) *mockQuoteReader {
	return &mockQuoteReader{
		readFn: func() cache.View {
			return view
		},
	}
}
