package database

import (
	"fmt"
	"net/url"
	"strings"
)

// jdbcParams JDBC/Navicat 参数 -> go-sql-driver 参数；空值表示直接丢弃
var jdbcParams = map[string]string{
	"characterEncoding":    "charset",
	"serverTimezone":       "loc",
	"useSSL":               "tls",
	"useUnicode":           "",
	"zeroDateTimeBehavior": "",
}

// useSSL 取值 -> tls 取值；未列出的一律 false
var sslModes = map[string]string{
	"true":        "true",
	"1":           "true",
	"skip-verify": "skip-verify",
	"preferred":   "preferred",
}

// normalizeMySQLDSN 接受 mysql:// 与 jdbc:mysql:// URL，转成 user:pass@tcp(host)/db?...；
// 原生 go-sql-driver DSN 原样返回
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return strings.TrimSpace(input)
	}
	u, err := url.Parse(in)
	if err != nil {
		return in // 解析失败交给驱动报错
	}

	q := u.Query()
	user, pass := pick(u, q, userOverride, passOverride)

	for from, to := range jdbcParams {
		v := q.Get(from)
		q.Del(from)
		if v == "" || to == "" || q.Get(to) != "" {
			continue
		}
		if from == "useSSL" {
			if m, ok := sslModes[strings.ToLower(v)]; ok {
				v = m
			} else {
				v = "false"
			}
		}
		q.Set(to, v)
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, u.Host, strings.TrimPrefix(u.Path, "/"))
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}

// pick 用户名/密码优先级：override > query > URL userinfo
func pick(u *url.URL, q url.Values, userOverride, passOverride string) (string, string) {
	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	for key, dst := range map[string]*string{"user": &user, "password": &pass} {
		if v := q.Get(key); v != "" {
			*dst = v
		}
		q.Del(key)
	}
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}
	return user, pass
}

// maskDSN 日志里隐藏密码
func maskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	if colon := strings.Index(dsn[:at], ":"); colon > 0 {
		return dsn[:colon+1] + "****" + dsn[at:]
	}
	return dsn
}
