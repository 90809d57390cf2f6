package enum

// CalcIndex selects one calculated index of SecurityCalcIndex.
type CalcIndex uint8

const (
	_calc_index_beg CalcIndex = iota
	CalcIndexLastDone
	CalcIndexChangeValue
	CalcIndexChangeRate
	CalcIndexVolume
	CalcIndexTurnover
	CalcIndexYtdChangeRate
	CalcIndexTurnoverRate
	CalcIndexTotalMarketValue
	CalcIndexCapitalFlow
	CalcIndexAmplitude
	CalcIndexVolumeRatio
	CalcIndexPeTTMRatio
	CalcIndexPbRatio
	CalcIndexDividendRatioTTM
	CalcIndexFiveDayChangeRate
	CalcIndexTenDayChangeRate
	CalcIndexHalfYearChangeRate
	CalcIndexFiveMinutesChangeRate
	_calc_index_end
)

func (c CalcIndex) IsAvailable() bool {
	return c > _calc_index_beg && c < _calc_index_end
}
