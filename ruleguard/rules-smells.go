package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// errors.New(fmt.Sprintf(...)) is fmt.Errorf with extra steps.
	m.Match(`errors.New(fmt.Sprintf($*args))`).
		Report(`use fmt.Errorf instead of errors.New(fmt.Sprintf(...))`).
		Suggest(`fmt.Errorf($args)`)

	// time.Now().Sub(x) reads worse than time.Since(x).
	m.Match(`time.Now().Sub($x)`).
		Report(`use time.Since instead of time.Now().Sub`).
		Suggest(`time.Since($x)`)

	// Two consecutive guards returning the same value are mergeable with ||.
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	// Handlers must not build error bodies by hand; the helpers keep the
	// error shapes consistent across endpoints.
	m.Match(`http.Error($w, $msg, $code)`).
		Report(`use the handlers package JSON helpers instead of http.Error for API responses`)
}
