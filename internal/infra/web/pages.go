package web

import (
	"html/template"
	"net/http"
)

// pageData is injected into every server-rendered page. The auth pages
// need the hosted auth URL and anon key for the browser SDK.
type pageData struct {
	SiteURL     string
	SupabaseURL string
	AnonKey     string
}

var pageStyle = `
body{font-family:system-ui,Arial,sans-serif;margin:0;min-height:100vh;display:flex;align-items:center;justify-content:center;background:#111827;color:#fff}
.card{max-width:480px;width:100%;margin:1rem;border:1px solid #374151;border-radius:12px;padding:32px;text-align:center;background:#1f2937}
h1{font-size:1.5rem;margin:0 0 12px}
p{color:#9ca3af;margin:0 0 12px}
.ok{color:#10b981}.fail{color:#f87171}
input{width:100%;box-sizing:border-box;margin:6px 0;padding:10px;border-radius:8px;border:1px solid #4b5563;background:#111827;color:#fff}
button{width:100%;margin-top:16px;padding:12px;border:0;border-radius:8px;background:#bd5dee;color:#fff;font-weight:600;cursor:pointer}
button:disabled{opacity:.5;cursor:default}
.small{font-size:12px;color:#6b7280;margin-top:16px}
`

var landingPage = template.Must(template.New("landing").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>Drippler</title><style>` + pageStyle + `</style></head>
<body><div class="card">
<h1>Drippler</h1>
<p>Virtual clothing try-on, right from your browser.</p>
<p>Install the Drippler extension to try on any garment you find while shopping.</p>
</div></body></html>`))

var verifyPage = template.Must(template.New("verify").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>Email Verified</title><style>` + pageStyle + `</style></head>
<body><div class="card">
<h1 class="ok">Email Verified!</h1>
<p>Your email has been successfully verified.</p>
<p>Return to the Drippler extension and sign in with your verified account.</p>
<button onclick="window.close()">Close Tab</button>
</div></body></html>`))

var successPage = template.Must(template.New("success").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>Welcome to Drippler Pro</title><style>` + pageStyle + `</style></head>
<body><div class="card">
<h1 class="ok">Welcome to Drippler Pro!</h1>
<p>Your subscription has been activated.</p>
<p>Enjoy 200 virtual try-on generations every month.</p>
<p class="small">You can close this tab and return to the extension.</p>
</div></body></html>`))

var cancelPage = template.Must(template.New("cancel").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>Checkout Canceled</title><style>` + pageStyle + `</style></head>
<body><div class="card">
<h1>Checkout Canceled</h1>
<p>No charge was made. You can upgrade to Pro any time from the extension.</p>
<p class="small">You can close this tab.</p>
</div></body></html>`))

// resetPasswordPage checks the recovery session placed by the reset link,
// then updates the password through the auth provider's browser SDK.
var resetPasswordPage = template.Must(template.New("reset").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>Reset Password</title><style>` + pageStyle + `</style>
<script src="https://cdn.jsdelivr.net/npm/@supabase/supabase-js@2"></script></head>
<body><div class="card">
<div id="invalid" style="display:none">
  <h1>Reset Password</h1>
  <p class="fail" id="invalid-msg">Invalid or expired reset link. Please request a new password reset.</p>
  <p class="small">If you need a new reset link, use the "Forgot Password" option in the Drippler extension.</p>
</div>
<div id="form-wrap" style="display:none">
  <h1>Reset Your Password</h1>
  <p>Enter your new password below</p>
  <p class="ok" id="message" style="display:none"></p>
  <p class="fail" id="error" style="display:none"></p>
  <form id="reset-form">
    <input type="password" id="password" placeholder="New password" autocomplete="new-password"/>
    <input type="password" id="confirm" placeholder="Confirm new password" autocomplete="new-password"/>
    <button type="submit" id="submit">Update Password</button>
  </form>
</div>
</div>
<script>
const supabase = window.supabase.createClient({{.SupabaseURL}}, {{.AnonKey}});
const show = (id) => document.getElementById(id).style.display = "block";
const hide = (id) => document.getElementById(id).style.display = "none";
const setText = (id, text) => { const el = document.getElementById(id); el.textContent = text; el.style.display = text ? "block" : "none"; };

async function init() {
  try {
    const { data: { session }, error } = await supabase.auth.getSession();
    if (error || !session || !session.user) { show("invalid"); return; }
    show("form-wrap");
  } catch (e) {
    setText("invalid-msg", "Something went wrong. Please try again.");
    show("invalid");
  }
}

document.getElementById("reset-form").addEventListener("submit", async (e) => {
  e.preventDefault();
  const password = document.getElementById("password").value;
  const confirm = document.getElementById("confirm").value;
  setText("error", ""); setText("message", "");
  if (!password || !confirm) { setText("error", "Please fill in all fields"); return; }
  if (password !== confirm) { setText("error", "Passwords do not match"); return; }
  if (password.length < 6) { setText("error", "Password must be at least 6 characters long"); return; }

  const btn = document.getElementById("submit");
  btn.disabled = true;
  try {
    const { error } = await supabase.auth.updateUser({ password });
    if (error) throw error;
    setText("message", "Password updated successfully! You can now sign in to the extension with your new password.");
    document.getElementById("password").value = "";
    document.getElementById("confirm").value = "";
    setTimeout(() => { window.location.href = "/"; }, 3000);
  } catch (err) {
    setText("error", err.message || "Failed to update password. Please try again.");
  } finally {
    btn.disabled = false;
  }
});

init();
</script>
</body></html>`))

func (s *Server) pageHandler(tmpl *template.Template) http.HandlerFunc {
	data := pageData{
		SiteURL:     s.siteURL,
		SupabaseURL: s.supabaseURL,
		AnonKey:     s.anonKey,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	}
}
