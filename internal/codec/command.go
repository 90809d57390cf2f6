package codec

import "strconv"

// Command identifies a stream operation.
type Command uint8

// Quote stream.
const (
	CmdHeartbeat                      Command = 1
	CmdAuth                           Command = 2
	CmdReconnect                      Command = 3
	CmdQuerySubscription              Command = 5
	CmdSubscribe                      Command = 6
	CmdUnsubscribe                    Command = 7
	CmdQueryMarketTradePeriod         Command = 8
	CmdQueryMarketTradeDay            Command = 9
	CmdQuerySecurityStaticInfo        Command = 10
	CmdQuerySecurityQuote             Command = 11
	CmdQueryOptionQuote               Command = 12
	CmdQueryWarrantQuote              Command = 13
	CmdQueryDepth                     Command = 14
	CmdQueryBrokers                   Command = 15
	CmdQueryParticipantBrokerIDs      Command = 16
	CmdQueryTrade                     Command = 17
	CmdQueryIntraday                  Command = 18
	CmdQueryCandlestick               Command = 19
	CmdQueryOptionChainDate           Command = 20
	CmdQueryOptionChainDateStrikeInfo Command = 21
	CmdQueryWarrantIssuerInfo         Command = 22
	CmdQueryWarrantFilterList         Command = 23
	CmdQueryCapitalFlowIntraday       Command = 24
	CmdQueryCapitalFlowDistribution   Command = 25
	CmdQuerySecurityCalcIndex         Command = 26
	CmdQueryHistoryCandlestick        Command = 27

	CmdPushQuote   Command = 101
	CmdPushDepth   Command = 102
	CmdPushBrokers Command = 103
	CmdPushTrade   Command = 104
)

// Trade stream.
const (
	CmdTradeSubscribe   Command = 16
	CmdTradeUnsubscribe Command = 17
	CmdTradeNotify      Command = 18
)

var commandNames = map[Command]string{
	CmdHeartbeat:                      "heartbeat",
	CmdAuth:                           "auth",
	CmdReconnect:                      "reconnect",
	CmdQuerySubscription:              "query_subscription",
	CmdSubscribe:                      "subscribe",
	CmdUnsubscribe:                    "unsubscribe",
	CmdQueryMarketTradePeriod:         "query_market_trade_period",
	CmdQueryMarketTradeDay:            "query_market_trade_day",
	CmdQuerySecurityStaticInfo:        "query_security_static_info",
	CmdQuerySecurityQuote:             "query_security_quote",
	CmdQueryOptionQuote:               "query_option_quote",
	CmdQueryWarrantQuote:              "query_warrant_quote",
	CmdQueryDepth:                     "query_depth",
	CmdQueryBrokers:                   "query_brokers",
	CmdQueryParticipantBrokerIDs:      "query_participant_broker_ids",
	CmdQueryTrade:                     "query_trade",
	CmdQueryIntraday:                  "query_intraday",
	CmdQueryCandlestick:               "query_candlestick",
	CmdQueryOptionChainDate:           "query_option_chain_date",
	CmdQueryOptionChainDateStrikeInfo: "query_option_chain_date_strike_info",
	CmdQueryWarrantIssuerInfo:         "query_warrant_issuer_info",
	CmdQueryWarrantFilterList:         "query_warrant_filter_list",
	CmdQueryCapitalFlowIntraday:       "query_capital_flow_intraday",
	CmdQueryCapitalFlowDistribution:   "query_capital_flow_distribution",
	CmdQuerySecurityCalcIndex:         "query_security_calc_index",
	CmdQueryHistoryCandlestick:        "query_history_candlestick",
	CmdPushQuote:                      "push_quote",
	CmdPushDepth:                      "push_depth",
	CmdPushBrokers:                    "push_brokers",
	CmdPushTrade:                      "push_trade",
}

// String names quote stream commands; trade stream codes overlap and print
// as their quote stream counterpart.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "cmd(" + strconv.Itoa(int(c)) + ")"
}
