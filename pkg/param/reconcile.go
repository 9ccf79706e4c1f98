package param

// Reconcile decides whether a parameter is an argument or an option and
// returns the marker that configures it. A parameter can be configured by a
// marker in its struct tags or by a marker in its ordinary default, but not
// both. A default set inside an annotated Option marker (a `default` tag)
// wins over the ordinary default from Defaults(); the ordinary default is
// only used when the marker has none. The returned marker is a copy; meta is
// never modified.
func Reconcile(meta ParamMeta) (ParameterInfo, error) {
	if len(meta.Metadata) > 1 {
		return nil, &MultipleAnnotationsError{ArgumentName: meta.Name}
	}
	defaultMarker, defaultIsMarker := meta.Default.(ParameterInfo)

	if len(meta.Metadata) == 1 {
		annotated := meta.Metadata[0]
		if defaultIsMarker {
			return nil, &MixedAnnotatedAndDefaultStyleError{
				ArgumentName:       meta.Name,
				AnnotatedParamType: annotated.Kind(),
				DefaultParamType:   defaultMarker.Kind(),
			}
		}
		info := annotated.clone()
		base := info.Base()
		if info.Kind() == KindArgument && !isUnset(base.Default) {
			return nil, &AnnotatedParamWithDefaultValueError{ArgumentName: meta.Name, ParamType: KindArgument}
		}
		if isUnset(base.Default) {
			base.Default = Required
			if meta.Default != Empty {
				base.Default = meta.Default
			}
		}
		if base.DefaultFactory != nil && !isUnset(base.Default) {
			return nil, &DefaultFactoryAndDefaultValueError{ArgumentName: meta.Name, ParamType: info.Kind()}
		}
		return info, nil
	}

	if defaultIsMarker {
		info := defaultMarker.clone()
		base := info.Base()
		if base.DefaultFactory != nil && !isUnset(base.Default) {
			return nil, &DefaultFactoryAndDefaultValueError{ArgumentName: meta.Name, ParamType: info.Kind()}
		}
		if base.Default == Empty {
			base.Default = Required
		}
		return info, nil
	}

	if meta.Default == Required || meta.Default == Empty {
		return newArgumentInfo(Required), nil
	}
	return newOptionInfo(meta.Default), nil
}
