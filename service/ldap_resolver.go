package service

import (
	"context"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"
)

// LDAPConfig carries the directory connection settings.
type LDAPConfig struct {
	URL             string
	BindDN          string // privileged service account
	BindPassword    string
	BaseDN          string
	LoginAttribute  string // e.g. "uid" or "mail"
	PoolSize        int
	CheckoutTimeout time.Duration
}

// LDAPResolver resolves principals from a directory service. Each call checks
// a slot out of a bounded pool, dials a short-lived connection, binds as the
// service account, searches for the login entry and (for authentication)
// re-binds as the resolved identity. Success of that second bind is the
// authentication decision.
type LDAPResolver struct {
	cfg   LDAPConfig
	slots chan struct{}
}

func NewLDAPResolver(cfg LDAPConfig) *LDAPResolver {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}
	if cfg.CheckoutTimeout <= 0 {
		cfg.CheckoutTimeout = 5 * time.Second
	}
	if cfg.LoginAttribute == "" {
		cfg.LoginAttribute = "uid"
	}
	r := &LDAPResolver{
		cfg:   cfg,
		slots: make(chan struct{}, cfg.PoolSize),
	}
	for i := 0; i < cfg.PoolSize; i++ {
		r.slots <- struct{}{}
	}
	return r
}

// acquire checks a pool slot out and dials a connection bound as the service
// account. Exhaustion and dial/bind failures surface as
// ErrResolverUnavailable; the flow never silently retries.
func (r *LDAPResolver) acquire(ctx context.Context) (*ldap.Conn, error) {
	select {
	case <-r.slots:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, ctx.Err())
	case <-time.After(r.cfg.CheckoutTimeout):
		logger.Log.WithField("pool_size", r.cfg.PoolSize).Error("LDAP pool checkout timed out")
		return nil, fmt.Errorf("%w: connection pool exhausted", ErrResolverUnavailable)
	}

	conn, err := ldap.DialURL(r.cfg.URL,
		ldap.DialWithDialer(&net.Dialer{Timeout: r.cfg.CheckoutTimeout}))
	if err != nil {
		r.slots <- struct{}{}
		logger.Log.WithError(err).WithField("url", r.cfg.URL).Error("Failed to dial LDAP server")
		return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
	}

	// Bound every request on this connection; a directory that accepts the
	// connection but stops answering must not hang the caller past its
	// deadline.
	timeout := r.cfg.CheckoutTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	conn.SetTimeout(timeout)

	if err := conn.Bind(r.cfg.BindDN, r.cfg.BindPassword); err != nil {
		conn.Close()
		r.slots <- struct{}{}
		logger.Log.WithError(err).Error("LDAP service-account bind failed")
		return nil, fmt.Errorf("%w: service bind: %v", ErrResolverUnavailable, err)
	}

	return conn, nil
}

// release closes the connection and returns its slot to the pool. Runs on
// every exit path, including error paths.
func (r *LDAPResolver) release(conn *ldap.Conn) {
	conn.Close()
	r.slots <- struct{}{}
}

// AuthenticateByCredential searches for the login entry under the base DN and
// binds as the found identity with the supplied secret. A missing entry and a
// rejected bind both return ErrInvalidCredential; they are only told apart in
// logs.
func (r *LDAPResolver) AuthenticateByCredential(ctx context.Context, loginID, secret string) (*model.Principal, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.release(conn)

	entry, err := r.searchOne(conn, fmt.Sprintf("(%s=%s)", r.cfg.LoginAttribute, ldap.EscapeFilter(loginID)))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		logger.Log.WithField("login", loginID).Warn("Login attempt for unknown directory entry")
		return nil, ErrInvalidCredential
	}

	if err := conn.Bind(entry.DN, secret); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			logger.Log.WithField("dn", entry.DN).Warn("Directory bind rejected user credentials")
			return nil, ErrInvalidCredential
		}
		logger.Log.WithError(err).WithField("dn", entry.DN).Error("Directory user bind failed")
		return nil, fmt.Errorf("%w: user bind: %v", ErrResolverUnavailable, err)
	}

	return principalFromEntry(entry)
}

// FetchByID looks the entry up by its numeric directory UID.
func (r *LDAPResolver) FetchByID(ctx context.Context, principalID string) (*model.Principal, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.release(conn)

	entry, err := r.searchOne(conn, fmt.Sprintf("(uidNumber=%s)", ldap.EscapeFilter(principalID)))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrPrincipalNotFound
	}

	return principalFromEntry(entry)
}

func (r *LDAPResolver) searchOne(conn *ldap.Conn, filter string) (*ldap.Entry, error) {
	req := ldap.NewSearchRequest(
		r.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 2, 0, false,
		filter,
		[]string{"uidNumber", "mail", "email", "createTimestamp"},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		logger.Log.WithError(err).WithField("filter", filter).Error("Directory search failed")
		return nil, fmt.Errorf("%w: search: %v", ErrResolverUnavailable, err)
	}

	switch len(res.Entries) {
	case 0:
		return nil, nil
	case 1:
		return res.Entries[0], nil
	default:
		logger.Log.WithFields(logrus.Fields{
			"filter":  filter,
			"matches": len(res.Entries),
		}).Error("Directory search matched more than one entry")
		return nil, fmt.Errorf("%w: ambiguous directory entry", ErrResolverUnavailable)
	}
}

func principalFromEntry(entry *ldap.Entry) (*model.Principal, error) {
	uid := entry.GetAttributeValue("uidNumber")
	if uid == "" {
		logger.Log.WithField("dn", entry.DN).Error("Directory entry has no uidNumber attribute")
		return nil, fmt.Errorf("%w: entry missing uidNumber", ErrResolverUnavailable)
	}

	email := entry.GetAttributeValue("mail")
	if email == "" {
		email = entry.GetAttributeValue("email")
	}

	p := &model.Principal{ID: uid, Email: email}
	if ts := entry.GetAttributeValue("createTimestamp"); ts != "" {
		if created, err := time.Parse("20060102150405Z", ts); err == nil {
			p.CreatedAt = created
		}
	}
	return p, nil
}
