package testapp

import "html/template"

type loginData struct {
	Failed        bool
	ValidatePath  string
	RenderDelayMs int64
}

type dashboardData struct {
	Username   string
	LogoutPath string
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
<div class="orangehrm-login-container">
  <h5 class="orangehrm-login-title">Login</h5>
  {{if .Failed}}<div class="oxd-alert oxd-alert--error" role="alert"><p class="oxd-alert-content-text">Invalid credentials</p></div>{{end}}
  <form method="post" action="{{.ValidatePath}}" class="oxd-form">
    <input class="oxd-input" name="username" placeholder="Username" autocomplete="off">
    <input class="oxd-input" name="password" type="password" placeholder="Password">
    <button type="submit" class="oxd-button"{{if gt .RenderDelayMs 0}} disabled{{end}}>Login</button>
  </form>
</div>
<script>
  console.log("login page ready");
  {{if gt .RenderDelayMs 0}}setTimeout(function () {
    document.querySelector("button[type='submit']").disabled = false;
  }, {{.RenderDelayMs}});{{end}}
</script>
</body>
</html>
`))

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Dashboard</title></head>
<body>
<header class="oxd-topbar-header">
  <h6 class="oxd-text oxd-text--h6 oxd-topbar-header-breadcrumb-module">Dashboard</h6>
  <a href="{{.LogoutPath}}">Logout</a>
</header>
<div class="orangehrm-dashboard-widget">Welcome {{.Username}}</div>
<script>console.log("dashboard loaded");</script>
</body>
</html>
`))
