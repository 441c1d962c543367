package handlers

import "net/http"

// Static admin pages. Full dashboard rendering lives with the frontend;
// these exist so the login redirect targets resolve.

const loginPage = `<!doctype html>
<title>demodrop admin</title>
<h1>Reviewer sign-in</h1>
<form method="post" action="/admin/login">
  <input type="password" name="password" placeholder="password" autofocus>
  <button type="submit">Sign in</button>
</form>`

const dashboardPage = `<!doctype html>
<title>demodrop admin</title>
<h1>demodrop admin</h1>
<p>Submission data is served from <a href="/admin/api/submissions">/admin/api/submissions</a>.</p>`

// GET /admin/login
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(loginPage))
}

// GET /admin
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardPage))
}
