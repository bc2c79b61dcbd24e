package app

import (
	"strings"

	"github.com/coffer-io/coffer"
	"github.com/coffer-io/coffer/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// CofferApp ties the request handler, the store and the query router
// together into the processing engine.
//
// Every delivered transaction is applied on a fresh cache wrap of the
// backing store: a successful request is written back as one unit, a
// failed one is discarded without a trace. Check requests run against a
// separate overlay that is never written back to the backing store, so
// dry runs observe each other but leave committed state untouched.
type CofferApp struct {
	logger log.Logger

	// db is the committed state of the engine.
	db coffer.CacheableKVStore

	// check is the dry-run overlay on top of db.
	check coffer.KVCacheWrap

	handler     coffer.Handler
	queryRouter coffer.QueryRouter
	initializer coffer.Initializer

	// baseContext holds context info valid for the lifetime of this
	// app (eg. chainID, logger)
	baseContext coffer.Context

	// chainID is loaded from db in initialization
	chainID string
}

// NewCofferApp assembles an engine from its parts.
func NewCofferApp(db coffer.CacheableKVStore, handler coffer.Handler,
	queryRouter coffer.QueryRouter, baseContext coffer.Context) *CofferApp {
	a := &CofferApp{
		db:          db,
		check:       db.CacheWrap(),
		handler:     handler,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	a = a.WithLogger(log.NewNopLogger())

	// load the chainID from the db, if initialized before
	chainID, err := loadChainID(db)
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		a.chainID = chainID
		a.baseContext = coffer.WithChainID(a.baseContext, chainID)
	}
	return a
}

// WithInit is used to set the init function we call on InitGenesis
func (a *CofferApp) WithInit(init coffer.Initializer) *CofferApp {
	a.initializer = init
	return a
}

// WithLogger sets the logger on the CofferApp and returns it, to make
// it easy to chain in initialization. Also sets the baseContext logger.
func (a *CofferApp) WithLogger(logger log.Logger) *CofferApp {
	a.baseContext = coffer.WithLogger(a.baseContext, logger)
	a.logger = logger
	return a
}

// Logger returns the application base logger
func (a *CofferApp) Logger() log.Logger {
	return a.logger
}

// GetChainID returns the current chainID
func (a *CofferApp) GetChainID() string {
	return a.chainID
}

// InitGenesis runs the registered initializers over the given app
// state. It may be called only once, before any request is processed.
func (a *CofferApp) InitGenesis(opts coffer.Options, chainID string) error {
	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis previously loaded for chain %q", a.chainID)
	}
	if a.initializer == nil {
		return errors.Wrap(errors.ErrState, "no initializer")
	}

	if err := saveChainID(a.db, chainID); err != nil {
		return err
	}
	a.chainID = chainID
	a.baseContext = coffer.WithChainID(a.baseContext, chainID)

	if err := a.initializer.FromGenesis(opts, a.db); err != nil {
		return errors.Wrap(err, "init from genesis")
	}
	// genesis state is visible to dry runs right away
	a.check.Discard()
	a.check = a.db.CacheWrap()
	return nil
}

// DeliverTx processes the transaction against the committed state. On
// success all writes are applied as one unit, on error none are.
func (a *CofferApp) DeliverTx(tx coffer.Tx) (*coffer.DeliverResult, error) {
	cache := a.db.CacheWrap()
	res, err := a.handler.Deliver(a.baseContext, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit request")
	}
	return res, nil
}

// CheckTx runs the transaction against the dry-run overlay. Writes are
// retained in the overlay only, never in the committed state.
func (a *CofferApp) CheckTx(tx coffer.Tx) (*coffer.CheckResult, error) {
	cache := a.check.CacheWrap()
	res, err := a.handler.Check(a.baseContext, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write check overlay")
	}
	return res, nil
}

// Query reads from the committed state. The path selects a registered
// query handler, an optional "?prefix" suffix switches from exact key
// lookup to prefix scan.
func (a *CofferApp) Query(path string, data []byte) ([]coffer.Model, error) {
	path, mod := splitPath(path)
	qh := a.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for path %q", path)
	}
	return qh.Query(a.db, mod, data)
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

// _cf: is a prefix for engine internal data
const chainIDKey = "_cf:chainID"

// loadChainID returns the chain id stored, if any.
func loadChainID(kv coffer.KVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chainID")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv coffer.KVStore, chainID string) error {
	if !coffer.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chainID")
	}
	if exists {
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chainID")
	}
	return nil
}
