package actions

const (
	startedSuffix = "_STARTED"
	doneSuffix    = "_DONE"
	failedSuffix  = "_FAILED"
)

// AsyncActionCreators describes the lifecycle of one asynchronous operation.
// Started carries the params, Done the params with the result and Failed
// the params with the error.
type AsyncActionCreators[P, S, E any] struct {
	Type    string
	Started ActionCreator[P]
	Done    ActionCreator[Success[P, S]]
	Failed  ActionCreator[Failure[P, E]]
}

// NewAsync registers typ+"_STARTED", typ+"_DONE" and typ+"_FAILED" on f.
// Started and Done never produce error actions and Failed always does,
// whatever the factory default classifier says.
func NewAsync[P, S, E any](f *Factory, typ string, commonMeta Meta) (AsyncActionCreators[P, S, E], error) {
	started, err := NewCreator[P](f, typ+startedSuffix,
		WithMeta(commonMeta), WithErrorPolicy(Fixed(false)))
	if err != nil {
		return AsyncActionCreators[P, S, E]{}, err
	}
	done, err := NewCreator[Success[P, S]](f, typ+doneSuffix,
		WithMeta(commonMeta), WithErrorPolicy(Fixed(false)))
	if err != nil {
		return AsyncActionCreators[P, S, E]{}, err
	}
	failed, err := NewCreator[Failure[P, E]](f, typ+failedSuffix,
		WithMeta(commonMeta), WithErrorPolicy(Fixed(true)))
	if err != nil {
		return AsyncActionCreators[P, S, E]{}, err
	}

	return AsyncActionCreators[P, S, E]{
		Type:    f.FullType(typ),
		Started: started,
		Done:    done,
		Failed:  failed,
	}, nil
}

// MustNewAsync is like NewAsync but panics on error.
func MustNewAsync[P, S, E any](f *Factory, typ string, commonMeta Meta) AsyncActionCreators[P, S, E] {
	ac, err := NewAsync[P, S, E](f, typ, commonMeta)
	if err != nil {
		panic(err)
	}
	return ac
}
